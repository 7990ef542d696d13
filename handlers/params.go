package handlers

import "strconv"

func pathInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
