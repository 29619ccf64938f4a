package normalize

import "strconv"

// Record is a decoded JSON object as produced by the response decoder.
type Record = map[string]interface{}

func getString(m Record, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getMap(m Record, key string) (Record, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	sub, ok := v.(Record)
	return sub, ok
}

func getSlice(m Record, key string) ([]interface{}, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	list, ok := v.([]interface{})
	return list, ok
}

// asInt reports whether v carries an integral number. JSON decoding yields
// float64, so integral floats count.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	}
	return ""
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case Record:
		return len(t) == 0
	}
	return false
}

func isBlank(m Record, key string) bool {
	v, ok := m[key]
	if !ok {
		return true
	}
	return isEmptyValue(v)
}
