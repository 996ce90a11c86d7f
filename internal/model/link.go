package model

// NoAnchorText is recorded as the text of a link whose anchor is empty.
const NoAnchorText = "[No Anchor Text]"

// Link is one anchor extracted from a document.
type Link struct {
	// URL is the absolute address of the link target.
	URL string `json:"url"`

	// Text is the whitespace-normalized anchor text, or NoAnchorText.
	Text string `json:"text"`

	// Title is the title attribute, if any.
	Title string `json:"title,omitempty"`

	Nofollow  bool `json:"nofollow"`
	Sponsored bool `json:"sponsored"`
	UGC       bool `json:"ugc"`
}

// HasAnchorText reports whether the link carries real anchor text.
func (l Link) HasAnchorText() bool {
	return l.Text != "" && l.Text != NoAnchorText
}
