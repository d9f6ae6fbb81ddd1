package progress

import (
	"strings"
)

// 进度条
func GetProgressBar(progress, width int) string {
	if width == 0 {
		width = 50
	}
	barLength := progress * width / 100
	progressBar := strings.Repeat("=", barLength)
	progressBar += ">"
	progressBar += strings.Repeat("-", width-barLength)
	return progressBar
}
