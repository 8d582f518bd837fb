package pipeline

import (
	"errors"

	"github.com/ppiankov/ideajudge/internal/llm"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
	"github.com/ppiankov/ideajudge/internal/validate"
)

// User-facing messages. Model and validation details stay in the log.
const (
	MsgInputIncomplete = "请完整填写项目标题与思路描述"
	MsgConfiguration   = "评审配置有误，请检查所选赛道与细分方向"
	MsgEvaluation      = "专家系统会商异常，请重试"
)

// UserMessage maps an evaluation error to the text shown to the user
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInputIncomplete):
		return MsgInputIncomplete
	case errors.Is(err, rubric.ErrConfiguration):
		return MsgConfiguration
	case errors.Is(err, llm.ErrExternalCall), errors.Is(err, validate.ErrMalformedResponse):
		return MsgEvaluation
	default:
		return MsgEvaluation
	}
}
