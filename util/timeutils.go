package util

import "time"

const FileTimestampFormat = "2006_01_02__15_04_05"

// FileTimestamp renders t for use in a file name, eg. 2024_03_01__13_05_09.
func FileTimestamp(t time.Time) string {
	return t.Format(FileTimestampFormat)
}
