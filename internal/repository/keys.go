package repository

import "fmt"

// Key layout. Primary records live at "<entity>:<id>"; one-to-many relations
// and enumerations are Redis sets of ids. Users are keyed by username, with a
// separate email index and a credential namespace the public record never
// touches.
const (
	usersSetKey          = "users"
	allCoursesKey        = "all_courses"
	featuredCoursesKey   = "featured_courses"
	trendingCoursesKey   = "trending_courses"
)

func userKey(username string) string       { return "user:" + username }
func emailKey(email string) string         { return "email:" + email }
func passwordKey(username string) string   { return "user_password:" + username }
func courseKey(id int64) string            { return fmt.Sprintf("course:%d", id) }
func courseModulesKey(id int64) string     { return fmt.Sprintf("course:%d:modules", id) }
func moduleKey(id int64) string            { return fmt.Sprintf("module:%d", id) }
func moduleLessonsKey(id int64) string     { return fmt.Sprintf("module:%d:lessons", id) }
func lessonKey(id int64) string            { return fmt.Sprintf("lesson:%d", id) }
func enrollmentKey(id int64) string        { return fmt.Sprintf("enrollment:%d", id) }
func userEnrollmentsKey(id int64) string   { return fmt.Sprintf("user:%d:enrollments", id) }
func courseEnrollmentsKey(id int64) string { return fmt.Sprintf("course:%d:enrollments", id) }
func paymentKey(id int64) string           { return fmt.Sprintf("payment:%d", id) }
func userPaymentsKey(id int64) string      { return fmt.Sprintf("user:%d:payments", id) }

func lessonProgressKey(userID, lessonID int64) string {
	return fmt.Sprintf("lesson_progress:%d:%d", userID, lessonID)
}

func moduleProgressKey(userID, moduleID int64) string {
	return fmt.Sprintf("module_progress:%d:%d", userID, moduleID)
}

func courseProgressKey(userID, courseID int64) string {
	return fmt.Sprintf("course_progress:%d:%d", userID, courseID)
}
