package service

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// SlugExists 判断候选 slug 是否已被占用
type SlugExists func(slug string) (bool, error)

const maxSlugAttempts = 50

// normalizeName 规范化名称：压缩空白并将每个单词首字母大写。
func normalizeName(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	for i, field := range fields {
		runes := []rune(strings.ToLower(field))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// normalizeAndSlugify 规范化名称并生成唯一 slug。
// 基础 slug 被占用时依次尝试 base-2、base-3 等候选，直到找到空位。
func normalizeAndSlugify(name string, exists SlugExists) (string, string, error) {
	normalized := normalizeName(name)
	base := slug.Make(normalized)
	if base == "" {
		return "", "", ErrInvalidInput
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", "", err
		}
		if !taken {
			return normalized, candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", "", ErrSlugExhausted
}
