package request

// Post is the request body for creating or updating a post. The engine
// re-checks the length bound in code points; the binding tag only rejects
// the obvious cases early.
type Post struct {
	Content string `json:"content" binding:"required,max=280"`
}

// Comment is the request body for commenting on a post.
type Comment struct {
	Content string `json:"content" binding:"required,max=280"`
}
