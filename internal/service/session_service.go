package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/repository"
)

type SessionService interface {
	// IngestSession normalizes the captured session and persists it with
	// all of its strokes, points and events as one atomic write. Returns
	// the session identifier.
	IngestSession(req *model.VerifyRequest, problem *model.Problem, isCorrect bool) (string, error)
	SetLabel(sessionUUID string, label *int16) error
	GetSession(sessionUUID string) (*model.Session, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

func (s *sessionService) IngestSession(req *model.VerifyRequest, problem *model.Problem, isCorrect bool) (string, error) {
	session := buildSession(req, problem, isCorrect)
	if err := s.sessionRepo.CreateSessionBundle(session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return session.SessionUUID, nil
}

func (s *sessionService) SetLabel(sessionUUID string, label *int16) error {
	return s.sessionRepo.UpdateLabel(sessionUUID, label)
}

func (s *sessionService) GetSession(sessionUUID string) (*model.Session, error) {
	return s.sessionRepo.GetSessionByUUID(sessionUUID)
}

// buildSession maps the raw payload onto relational rows. All derivations
// happen here: session identifier, per-stroke identifiers and bounding
// boxes, and the rebasing of point timestamps onto their stroke's start.
func buildSession(req *model.VerifyRequest, problem *model.Problem, isCorrect bool) *model.Session {
	data := &req.SessionData
	meta := &data.Metadata

	session := &model.Session{
		SessionUUID: sessionIdentifier(meta.SessionID),
		StartTime:   parseClientTime(meta.StartTime),
		EndTime:     parseClientTime(meta.EndTime),
		DurationMs:  meta.Duration,
		ProblemID:   problem.ID,
		CategoryID:  problem.CategoryID,

		UserAgent:    optString(meta.UserAgent),
		Platform:     optString(meta.Platform),
		PixelRatio:   meta.PixelRatio,
		ScreenWidth:  meta.ScreenWidth,
		ScreenHeight: meta.ScreenHeight,

		SupportsPressure:  data.DeviceCapabilities.Pressure,
		SupportsTilt:      data.DeviceCapabilities.Tilt,
		SupportsTwist:     data.DeviceCapabilities.Twist,
		SupportsCoalesced: data.DeviceCapabilities.Coalesced,

		StrokeCount:           len(data.CanvasData.Strokes),
		AverageStrokeLengthPx: data.Statistics.AverageStrokeLength,
		UndoCount:             data.Statistics.UndoCount,
		RedoCount:             data.Statistics.RedoCount,
		EraserCount:           data.Statistics.EraserCount,
		ZoomCount:             data.Statistics.ZoomCount,
		PanCount:              data.Statistics.PanCount,
		ToolChangeCount:       data.Statistics.ToolChanges,

		IsCorrect: &isCorrect,
	}

	if state := data.CanvasData.CanvasState; state != nil {
		session.LogicalWidth = state.LogicalWidth
		session.LogicalHeight = state.LogicalHeight
		session.CSSWidth = state.CSSWidth
		session.CSSHeight = state.CSSHeight
		session.Zoom = state.Zoom
		session.PanX = state.PanX
		session.PanY = state.PanY
	}

	if session.DurationMs == 0 {
		session.DurationMs = data.Statistics.SessionDuration
	}

	answer := SubmittedAnswerString(req.UserAnswer)
	session.Answer = &answer

	if req.Label != nil {
		label := int16(*req.Label)
		session.Label = &label
	}

	totalDistance := data.Statistics.TotalDistance
	for i := range data.CanvasData.Strokes {
		stroke := buildStroke(&data.CanvasData.Strokes[i], session.SessionUUID)
		session.Strokes = append(session.Strokes, stroke)
		if data.Statistics.TotalDistance == 0 {
			totalDistance += stroke.TotalDistancePx
		}
	}
	session.TotalDistancePx = totalDistance

	for i := range data.CanvasData.Events {
		ev := &data.CanvasData.Events[i]
		session.Events = append(session.Events, model.Event{
			SessionUUID: session.SessionUUID,
			TsMs:        ev.Timestamp,
			Type:        ev.Type,
			Details:     datatypes.JSON(ev.Data),
		})
	}

	return session
}

// buildStroke assigns a fresh identifier, computes the bounding box over
// the stroke's own points and rebases every point timestamp from
// session-relative to stroke-relative milliseconds.
func buildStroke(sp *model.StrokePayload, sessionUUID string) model.Stroke {
	stroke := model.Stroke{
		StrokeUUID:       uuid.New().String(),
		SessionUUID:      sessionUUID,
		Tool:             defaultString(sp.Tool, "pen"),
		Color:            sp.Color,
		StrokeWidth:      sp.StrokeWidth,
		StartMs:          sp.StartTime,
		EndMs:            sp.EndTime,
		PointerType:      defaultString(sp.PointerType, "pen"),
		IsCoalesced:      sp.IsCoalesced,
		TotalDistancePx:  sp.TotalDistance,
		AverageSpeedPxps: sp.AverageSpeed,
		AveragePressure:  sp.AveragePressure,
	}

	stroke.BboxMinX, stroke.BboxMinY, stroke.BboxMaxX, stroke.BboxMaxY = boundingBox(sp.Points)

	for i := range sp.Points {
		p := &sp.Points[i]
		stroke.Points = append(stroke.Points, model.StrokePoint{
			SessionUUID: sessionUUID,
			StrokeUUID:  stroke.StrokeUUID,
			Idx:         i,
			TMs:         p.Timestamp - sp.StartTime,
			X:           p.X,
			Y:           p.Y,
			Pressure:    p.Pressure,
			TiltX:       p.TiltX,
			TiltY:       p.TiltY,
			Twist:       p.Twist,
			Width:       p.Width,
			Height:      p.Height,
			PointerType: defaultString(p.PointerType, stroke.PointerType),
			PointerID:   p.PointerID,
			Buttons:     p.Buttons,
		})
	}

	return stroke
}

// boundingBox returns min/max x,y over the points; an empty point list
// yields the degenerate (0,0,0,0) box.
func boundingBox(points []model.PointPayload) (minX, minY, maxX, maxY int) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY
}

// sessionIdentifier trusts the client id only when it parses as a UUID.
func sessionIdentifier(clientID string) string {
	if parsed, err := uuid.Parse(clientID); err == nil {
		return parsed.String()
	}
	return uuid.New().String()
}

// parseClientTime tolerates unparseable timestamps: the column stays NULL
// instead of the submission failing.
func parseClientTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
