package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

// Business codes for validation kinds.
var kindCodes = map[pkgerrors.Kind]int{
	pkgerrors.KindNotFound:                20001,
	pkgerrors.KindForeignKeyMissing:       20002,
	pkgerrors.KindCapacityExceeded:        20003,
	pkgerrors.KindInvalidFormat:           20004,
	pkgerrors.KindSchedulingConflict:      20005,
	pkgerrors.KindSelfReferenceNotAllowed: 20006,
	pkgerrors.KindDuplicateEdge:           20007,
	pkgerrors.KindCycleNotAllowed:         20008,
}

// conflictData is the data payload of a rejected placement or edge.
type conflictData struct {
	Kind        string  `json:"kind"`
	ConflictIDs []int64 `json:"conflict_ids,omitempty"`
}

// handleCommonError writes the response for errors shared by every module.
// It returns false when err is module specific and still unhandled.
func handleCommonError(c *gin.Context, err error) bool {
	var ve *pkgerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		if ve.Kind == pkgerrors.KindNotFound {
			response.NotFound(c, kindCodes[ve.Kind], ve.Error())
			return true
		}
		response.Conflict(c, kindCodes[ve.Kind], ve.Error(), conflictData{
			Kind:        string(ve.Kind),
			ConflictIDs: ve.ConflictIDs,
		})
		return true
	case errors.Is(err, service.ErrBucketBusy):
		response.ServiceUnavailable(c, 20009, err.Error())
		return true
	}
	return false
}
