package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GenerateUUID 生成一个标准的 UUID (v4)
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateShortUUID 生成一个不带中划线的短 UUID
func GenerateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// ValidateUserInput 校验用户输入：去除首尾空白后非空，且不超过 maxLength 个字符
func ValidateUserInput(text string, maxLength int) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return utf8.RuneCountInString(text) <= maxLength
}

// TruncateRunes 按字符数截断字符串（中文输入按 rune 计数）
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// AnonymizeUserID 匿名化用户ID，仅用于日志输出
func AnonymizeUserID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])[:8]
}
