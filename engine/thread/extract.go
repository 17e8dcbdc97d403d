package thread

// ExtractPostMetadata projects the first child of the post listing. Missing
// listings, children or fields yield zero values rather than an error.
func ExtractPostMetadata(t Thread) PostMetadata {
	if len(t) < 1 || len(t[0].Children) == 0 {
		return PostMetadata{}
	}
	d := t[0].Children[0].Data
	if d == nil {
		return PostMetadata{}
	}
	return PostMetadata{
		Title:     str(d.Title),
		Body:      str(d.SelfText),
		Author:    str(d.Author),
		Score:     num(d.Score),
		SourceURL: str(d.URL),
	}
}
