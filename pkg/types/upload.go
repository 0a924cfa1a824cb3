package types

// Upload is an in-memory file received from a multipart form, ready to be
// pushed to the blob store.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
