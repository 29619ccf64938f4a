package service

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrForbidden        = errors.New("session belongs to another user")
	ErrUploadInFlight   = errors.New("an upload for this session is already running")
	ErrNothingToUpload  = errors.New("no valid approved proposals to upload")
)
