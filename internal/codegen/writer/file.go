package writer

// File is one generated output artifact, named relative to the output directory
type File struct {
	Name    string
	Content []byte
}
