package parsers

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

var stageLabels = []string{
	model.StageBooking,
	model.StageCancellation,
	model.StageReschedule,
	model.StageViewMyBooking,
	model.StageAboutSalon,
}

// ParseStageLabel normalizes a classifier response to a stage label. The
// classifier is told to answer with a single word, but responses drift:
// extra prose, JSON envelopes, capitalization. Returns "" when no known
// label can be recovered; the caller decides how to fail.
func ParseStageLabel(response string) string {
	response = strings.ToLower(strings.TrimSpace(response))
	if response == "" {
		return ""
	}

	// exact match is the common case
	if model.KnownStage(response) {
		return response
	}

	// first word of the response
	if fields := strings.Fields(response); len(fields) > 0 && model.KnownStage(fields[0]) {
		return fields[0]
	}

	// whole-word match anywhere, longest label first so view_my_booking is
	// not shadowed by booking
	sorted := make([]string, len(stageLabels))
	copy(sorted, stageLabels)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, label := range sorted {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(label) + `\b`)
		if re.MatchString(response) {
			return label
		}
	}

	// JSON envelope: {"stage": "..."}
	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start >= 0 && end > start {
		var payload struct {
			Stage string `json:"stage"`
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &payload); err == nil {
			label := strings.ToLower(strings.TrimSpace(payload.Stage))
			if model.KnownStage(label) {
				return label
			}
		}
	}

	logx.Warn().
		Str("component", "stage_parser").
		Str("response", safeSnippet(response)).
		Msg("no stage label recognized in classifier response")
	return ""
}

const maxErrSnippet = 200

func safeSnippet(s string) string {
	if len(s) > maxErrSnippet {
		return s[:maxErrSnippet]
	}
	return s
}
