package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/generation/v1"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // Generation can take minutes, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		color.Red("API_TOKEN is not set")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Content Generation API Test\n")

	// 1. Catalogs
	color.Yellow("\n1. Get Catalogs (content types, question types)")
	resp, body, err := sendRequest("GET", "/catalogs", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 2. Create session (queued)
	color.Yellow("\n2. Create Question Generation Session (queued)")
	createReq := map[string]interface{}{
		"content_type": "question",
		"user_prompt":  "Basic fractions for year 4, word problems preferred",
		"source_type":  "prompt",
		"input_settings": map[string]interface{}{
			"year_group":     "Year 4",
			"category":       "Mathematics",
			"item_count":     3,
			"difficulty":     4,
			"question_types": []string{"multiple_choice", "short_answer"},
		},
		"process_now": false,
	}
	resp, body, err = sendRequest("POST", "/sessions", token, createReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	created := decode(body)
	prettyPrint(created)

	data, _ := created["data"].(map[string]interface{})
	session, _ := data["session"].(map[string]interface{})
	sessionId, _ := session["id"].(string)
	if sessionId == "" {
		color.Red("No session id in response")
		os.Exit(1)
	}

	// 3. Poll until the worker finishes
	color.Yellow("\n3. Poll Session %s", sessionId)
	status := ""
	for i := 0; i < 60; i++ {
		time.Sleep(5 * time.Second)
		resp, body, err = sendRequest("GET", "/sessions/"+sessionId, token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		detail := decode(body)
		d, _ := detail["data"].(map[string]interface{})
		s, _ := d["session"].(map[string]interface{})
		status, _ = s["status"].(string)
		color.White("  status=%s", status)
		if status != "pending" && status != "processing" {
			prettyPrint(detail)
			break
		}
	}
	if status != "review_pending" {
		color.Red("Session did not reach review: status=%s", status)
		os.Exit(1)
	}

	// 4. Collect proposal ids and approve them
	color.Yellow("\n4. Approve All Proposals")
	resp, body, _ = sendRequest("GET", "/sessions/"+sessionId, token, nil)
	detail := decode(body)
	d, _ := detail["data"].(map[string]interface{})
	proposals, _ := d["proposals"].([]interface{})
	ids := []string{}
	for _, p := range proposals {
		pm, _ := p.(map[string]interface{})
		if id, ok := pm["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	resp, body, err = sendRequest("POST", "/sessions/"+sessionId+"/approve", token, map[string]interface{}{"proposal_ids": ids})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Upload
	color.Yellow("\n5. Upload Approved Content")
	resp, body, err = sendRequest("POST", "/sessions/"+sessionId+"/upload", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Audit trail
	color.Yellow("\n6. Generation Logs")
	resp, body, err = sendRequest("GET", "/sessions/"+sessionId+"/logs", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Generation flow completed")
}
