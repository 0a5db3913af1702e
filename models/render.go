package models

// RenderSpec is the document-agnostic shape handed to the PDF renderer.
type RenderSpec struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}
