package dsl

import (
	"strconv"
	"strings"
)

func parseInt64(s string) (int64, bool) {
	i, err := strconv.ParseInt(s, 10, 64)
	return i, err == nil
}

func parseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func toLower(s string) string {
	return strings.ToLower(s)
}
