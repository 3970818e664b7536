package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeVideo = "video/"
	MimeImage = "image/"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
)
