package redisrepo

import "fmt"

const (
	POSTS_PAGE_KEY     = "posts-page:%s:%d:%d" // <subject>:<page>:<size>
	POSTS_PAGE_PATTERN = "posts-page:%s:*"     // <subject>
	USER_KEY           = "user:%s"             // <userID>

	allSubjects = "all"
)

// PostsPageKey caches one page of the feed (empty subject) or of a wall.
func PostsPageKey(subject string, page int, size int) string {
	return fmt.Sprintf(POSTS_PAGE_KEY, subjectOrAll(subject), page, size)
}

func PostsPagePattern(subject string) string {
	return fmt.Sprintf(POSTS_PAGE_PATTERN, subjectOrAll(subject))
}

func UserKey(userID string) string {
	return fmt.Sprintf(USER_KEY, userID)
}

func subjectOrAll(subject string) string {
	if subject == "" {
		return allSubjects
	}
	return subject
}
