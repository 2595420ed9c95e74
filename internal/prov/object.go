package prov

import "path/filepath"

// FormatOctetStream is the fallback classifier for destinations whose
// extension is not in the format table.
const FormatOctetStream = "application/octet-stream"

// formatByExt maps file extensions to their canonical media types.
//
// Matching is case-sensitive: ".JPEG" falls through to the octet-stream
// fallback. This mirrors the observed capture behavior and is a known
// limitation rather than a guarantee.
var formatByExt = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".jp2":  "image/jp2",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// FormatForPath derives the media-type classifier for a destination path
// from its extension. Unknown or missing extensions map to
// application/octet-stream.
func FormatForPath(path string) string {
	if format, ok := formatByExt[filepath.Ext(path)]; ok {
		return format
	}
	return FormatOctetStream
}

// DataObject is a provenance node for one artifact touched during a run.
//
// The identifier is minted on first registration and reused for every
// later touch of the same resolved path within the run. The record itself
// is replaced on re-registration so format metadata can be refreshed;
// replacement models "touched again", not "a new artifact".
type DataObject struct {
	// ID is the object's urn identifier, unique within the run.
	ID string `json:"identifier"`

	// FormatID is the declared media-type classifier.
	FormatID string `json:"format_id"`

	// ResolvedPath is the canonical absolute path, the deduplication key.
	ResolvedPath string `json:"resolved_path"`
}

// NewDataObject creates an object node for the given identity and path.
// The format is derived from the path's extension.
func NewDataObject(id, resolvedPath string) *DataObject {
	return &DataObject{
		ID:           id,
		FormatID:     FormatForPath(resolvedPath),
		ResolvedPath: resolvedPath,
	}
}
