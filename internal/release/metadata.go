package release

// MetadataFilename is the metadata document every release folder must contain.
const MetadataFilename = "release.json"

// Metadata is the decoded release metadata document.
type Metadata struct {
	Component  string     `json:"component"`
	Version    string     `json:"version"`
	ReleasedBy string     `json:"released_by"`
	ReleasedAt string     `json:"released_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	PeerReview PeerReview `json:"peer_review"`
}

// PeerReview is the review record attesting a release was checked before promotion.
type PeerReview struct {
	Reviewer      string `json:"reviewer"`
	Outcome       string `json:"outcome"`
	ReviewedAt    string `json:"reviewed_at"`
	Documentation string `json:"documentation,omitempty"`
	Comments      string `json:"comments,omitempty"`
}
