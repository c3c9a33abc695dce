package server

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxContentLength = 200_000
	maxLabelLength   = 120
	maxNameLength    = 80
	eventDateLayout  = "2006-01-02"
)

var (
	recordIDRegex     = regexp.MustCompile(`^rc-[0-9a-z]{4}$`)
	versionIDRegex    = regexp.MustCompile(`^vs-[0-9a-z]{4}$`)
	exhibitIDRegex    = regexp.MustCompile(`^ex-[0-9a-z]{4}$`)
	attachmentIDRegex = regexp.MustCompile(`^at-[0-9a-z]{4}$`)
	tagIDRegex        = regexp.MustCompile(`^tg-[0-9a-z]{4}$`)
	caseIDRegex       = regexp.MustCompile(`^cs-[0-9a-z]{4}$`)
	shareIDRegex      = regexp.MustCompile(`^sh-[0-9a-z]{4}$`)
	userIDRegex       = regexp.MustCompile(`^us-[0-9a-z]{4}$`)
	tagColorRegex     = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func validateRecordID(id string) bool     { return recordIDRegex.MatchString(id) }
func validateVersionID(id string) bool    { return versionIDRegex.MatchString(id) }
func validateExhibitID(id string) bool    { return exhibitIDRegex.MatchString(id) }
func validateAttachmentID(id string) bool { return attachmentIDRegex.MatchString(id) }
func validateTagID(id string) bool        { return tagIDRegex.MatchString(id) }
func validateCaseID(id string) bool       { return caseIDRegex.MatchString(id) }
func validateShareID(id string) bool      { return shareIDRegex.MatchString(id) }
func validateUserID(id string) bool       { return userIDRegex.MatchString(id) }

// normalizeContent trims and bounds record content. Empty content is
// rejected; the version chain never holds a blank snapshot.
func normalizeContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", badRequestCode(fmt.Errorf("content_text is required"), ErrCodeMissingRequired)
	}
	if len(content) > maxContentLength {
		return "", badRequestCode(fmt.Errorf("content_text exceeds %d bytes", maxContentLength), ErrCodeInvalidArgument)
	}
	return content, nil
}

// normalizeEventDate validates an optional YYYY-MM-DD date string.
func normalizeEventDate(raw *string) (string, error) {
	if raw == nil {
		return "", nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(eventDateLayout, value); err != nil {
		return "", badRequestCode(fmt.Errorf("event_date must be %s", eventDateLayout), ErrCodeInvalidDate)
	}
	return value, nil
}

func normalizeLabel(raw *string) (string, error) {
	if raw == nil {
		return "", nil
	}
	label := strings.TrimSpace(*raw)
	if len(label) > maxLabelLength {
		return "", badRequest(fmt.Errorf("label exceeds %d characters", maxLabelLength))
	}
	return label, nil
}

// normalizeName validates tag and case names. Names are trimmed and
// lowercased for tags; cases keep their casing.
func normalizeName(raw string, lower bool) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", badRequestCode(fmt.Errorf("name is required"), ErrCodeMissingRequired)
	}
	if len(name) > maxNameLength {
		return "", badRequestCode(fmt.Errorf("name exceeds %d characters", maxNameLength), ErrCodeInvalidName)
	}
	if lower {
		name = strings.ToLower(name)
	}
	return name, nil
}

func normalizeTagColor(raw *string) (string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return "", nil
	}
	color := strings.TrimSpace(*raw)
	if !tagColorRegex.MatchString(color) {
		return "", badRequest(fmt.Errorf("color must be a #rrggbb hex value"))
	}
	return strings.ToLower(color), nil
}
