package models

// Attachment is an inline image embedded in an HTML email body by CID.
type Attachment struct {
	Path     string
	Filename string
	CID      string
}

// RenderedMessage is a fully personalized message ready for a delivery
// channel. SMS channels use Text only.
type RenderedMessage struct {
	Subject    string
	HTML       string
	Text       string
	Attachment *Attachment
}
