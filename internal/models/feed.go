package models

// FeedMode is the policy a feed build resolved to.
type FeedMode string

const (
	FeedModeColdStart FeedMode = "cold_start"
	FeedModeGraph     FeedMode = "graph"
	FeedModeTag       FeedMode = "tag"
)

// PageRequest is 1-indexed offset pagination.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CursorRequest is keyset pagination for infinite scroll. An empty cursor
// means the newest page.
type CursorRequest struct {
	Cursor string
	Limit  int
}

// PageMeta carries offset pagination metadata.
type PageMeta struct {
	TotalDocuments int64 `json:"total_documents"`
	TotalPages     int   `json:"total_pages"`
	CurrentPage    int   `json:"current_page"`
	PageSize       int   `json:"page_size"`
	HasNextPage    bool  `json:"has_next_page"`
}

// NewPageMeta computes page counts for total matching rows.
func NewPageMeta(total int64, page PageRequest) PageMeta {
	totalPages := 0
	if page.PageSize > 0 {
		totalPages = int((total + int64(page.PageSize) - 1) / int64(page.PageSize))
	}
	return PageMeta{
		TotalDocuments: total,
		TotalPages:     totalPages,
		CurrentPage:    page.Page,
		PageSize:       page.PageSize,
		HasNextPage:    page.Page < totalPages,
	}
}

// HomeFeed is one page of the home timeline.
type HomeFeed struct {
	Posts []*Post `json:"posts"`
	PageMeta
	IsColdStart bool `json:"is_cold_start"`
}

// TimelinePage is one page of the cursor-paginated timeline. NextCursor is
// empty when there are no older posts.
type TimelinePage struct {
	Posts       []*Post `json:"posts"`
	NextCursor  string  `json:"next_cursor,omitempty"`
	IsColdStart bool    `json:"is_cold_start"`
}

// OriginalView is the resolved target of a repost. A deleted, unpublished or
// missing original is tombstoned and carries no body.
type OriginalView struct {
	Post       *Post           `json:"post,omitempty"`
	Author     *AuthorSnapshot `json:"author,omitempty"`
	Tombstoned bool            `json:"tombstoned"`
}

// AnnotatedPost is a post joined with its author, its original (for
// reposts) and the viewer's interaction flags.
type AnnotatedPost struct {
	Post      *Post          `json:"post"`
	Author    AuthorSnapshot `json:"author"`
	Original  *OriginalView  `json:"original,omitempty"`
	Liked     bool           `json:"liked"`
	Favorited bool           `json:"favorited"`
}

// CombinedFeed is one page of annotated posts.
type CombinedFeed struct {
	Posts []*AnnotatedPost `json:"posts"`
	PageMeta
	IsColdStart bool `json:"is_cold_start"`
}
