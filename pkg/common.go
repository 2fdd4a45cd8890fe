package common

import (
	"github.com/mitchellh/go-homedir"
)

var (
	SEGMATURA_BASE_DIR, _ = homedir.Expand("~/.segmatura")
)

//UniqueStrings returns the values with duplicates removed, preserving the
//order of first occurrence. Used wherever question framework tags and
//subcategory framework references are combined
func UniqueStrings(values ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, vs := range values {
		for _, v := range vs {
			if _, present := seen[v]; present {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
