package persistence

import "time"

// Asset is a binary media object stored under a caller supplied key.
type Asset struct {
	ID       string
	Name     string
	MimeType string
	Data     []byte
	// Digest is the hex encoded BLAKE2b-256 sum of Data.
	Digest   string
	StoredAt time.Time
}

// StateSnapshot is a serialized application state blob.
type StateSnapshot struct {
	Key       string
	Payload   string
	UpdatedAt time.Time
}

// CloneAsset returns a copy of asset that shares no memory with the original.
func CloneAsset(asset Asset) Asset {
	data := make([]byte, len(asset.Data))
	copy(data, asset.Data)
	asset.Data = data
	return asset
}
