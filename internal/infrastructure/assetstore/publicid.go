package assetstore

import "strings"

// ResolvePublicID recovers the public ID of an asset from its stored
// delivery URL: the last path segment without its extension, prefixed with
// the folder the asset was uploaded into. Returns "" when the URL has no
// usable filename.
func ResolvePublicID(url, folder string) string {
	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	filename := trimmed[idx+1:]
	if dot := strings.LastIndex(filename, "."); dot > 0 {
		filename = filename[:dot]
	}
	if filename == "" {
		return ""
	}
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}
