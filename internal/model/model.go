package model

import (
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;unique"`

	Problems []Problem `json:"problems,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "categories"
}

// SolutionStep is one entry of a problem's stepwise solution guide.
type SolutionStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// Problem rows are created by the offline ingestion tool and changed only
// through the admin routes; the serving path never writes them.
type Problem struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:100;not null;unique"`
	CategoryID uint   `json:"category_id" gorm:"not null;index"`

	OriginalImg *string `json:"original_img,omitempty"`
	SeparateImg *string `json:"separate_img,omitempty"`

	Difficulty int    `json:"difficulty" gorm:"not null;check:difficulty >= 0 AND difficulty <= 100"`
	Problem    string `json:"problem" gorm:"not null"`

	// Choices is empty for free-response problems.
	Choices       datatypes.JSONSlice[string]       `json:"choices"`
	SolutionSteps datatypes.JSONSlice[SolutionStep] `json:"solution_steps"`

	// Answer is the canonical answer string; one-based numeric for
	// multiple-choice problems.
	Answer string `json:"answer,omitempty" gorm:"size:50;not null"`

	IsVisible bool `json:"is_visible" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Problem) TableName() string {
	return "problems"
}

// Session is one solving attempt. It exclusively owns its strokes, points
// and events; deleting a session cascades through all of them.
type Session struct {
	SessionUUID string `json:"session_uuid" gorm:"primaryKey;size:36"`

	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	DurationMs int        `json:"duration_ms" gorm:"not null"`

	ProblemID  uint `json:"problem_id" gorm:"not null;index"`
	CategoryID uint `json:"category_id" gorm:"index"`

	UserAgent    *string  `json:"user_agent,omitempty"`
	Platform     *string  `json:"platform,omitempty" gorm:"size:64"`
	PixelRatio   *float64 `json:"pixel_ratio,omitempty"`
	ScreenWidth  *int     `json:"screen_width,omitempty"`
	ScreenHeight *int     `json:"screen_height,omitempty"`

	LogicalWidth  *int     `json:"logical_width,omitempty"`
	LogicalHeight *int     `json:"logical_height,omitempty"`
	CSSWidth      *int     `json:"css_width,omitempty"`
	CSSHeight     *int     `json:"css_height,omitempty"`
	Zoom          *float64 `json:"zoom,omitempty"`
	PanX          *int     `json:"pan_x,omitempty"`
	PanY          *int     `json:"pan_y,omitempty"`

	SupportsPressure  bool `json:"supports_pressure" gorm:"default:false"`
	SupportsTilt      bool `json:"supports_tilt" gorm:"default:false"`
	SupportsTwist     bool `json:"supports_twist" gorm:"default:false"`
	SupportsCoalesced bool `json:"supports_coalesced" gorm:"default:false"`

	StrokeCount           int      `json:"stroke_count" gorm:"not null"`
	TotalDistancePx       float64  `json:"total_distance_px" gorm:"not null"`
	AverageStrokeLengthPx *float64 `json:"average_stroke_length_px,omitempty"`
	UndoCount             int      `json:"undo_count" gorm:"default:0"`
	RedoCount             int      `json:"redo_count" gorm:"default:0"`
	EraserCount           int      `json:"eraser_count" gorm:"default:0"`
	ZoomCount             int      `json:"zoom_count" gorm:"default:0"`
	PanCount              int      `json:"pan_count" gorm:"default:0"`
	ToolChangeCount       int      `json:"tool_change_count" gorm:"default:0"`

	Answer    *string `json:"answer,omitempty" gorm:"size:255"`
	IsCorrect *bool   `json:"is_correct,omitempty"`

	// Label is the supervised label set out-of-band by an operator:
	// NULL = unlabeled, 0 = normal, 1 = flagged.
	Label *int16 `json:"label,omitempty"`

	Strokes []Stroke `json:"strokes,omitempty" gorm:"foreignKey:SessionUUID;constraint:OnDelete:CASCADE"`
	Events  []Event  `json:"events,omitempty" gorm:"foreignKey:SessionUUID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "sessions"
}

type Stroke struct {
	StrokeUUID  string `json:"stroke_uuid" gorm:"primaryKey;size:36"`
	SessionUUID string `json:"session_uuid" gorm:"size:36;not null;index:idx_strokes_session_start"`

	Tool        string `json:"tool" gorm:"size:16;not null"` // 'pen' | 'eraser'
	Color       string `json:"color" gorm:"size:16"`
	StrokeWidth int    `json:"stroke_width" gorm:"not null"`

	// Session-relative time window, in ms.
	StartMs int `json:"start_ms" gorm:"not null;index:idx_strokes_session_start"`
	EndMs   int `json:"end_ms" gorm:"not null"`

	PointerType string `json:"pointer_type" gorm:"size:16;default:'pen'"`
	IsCoalesced bool   `json:"is_coalesced" gorm:"default:false"`

	TotalDistancePx  float64  `json:"total_distance_px" gorm:"not null"`
	AverageSpeedPxps *float64 `json:"average_speed_pxps,omitempty"`
	AveragePressure  *float64 `json:"average_pressure,omitempty"`

	BboxMinX int `json:"bbox_min_x" gorm:"not null"`
	BboxMinY int `json:"bbox_min_y" gorm:"not null"`
	BboxMaxX int `json:"bbox_max_x" gorm:"not null"`
	BboxMaxY int `json:"bbox_max_y" gorm:"not null"`

	Points []StrokePoint `json:"points,omitempty" gorm:"foreignKey:StrokeUUID;constraint:OnDelete:CASCADE"`
}

func (Stroke) TableName() string {
	return "strokes"
}

// StrokePoint carries the session UUID alongside its stroke for query
// locality on the large table.
type StrokePoint struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionUUID string `json:"session_uuid" gorm:"size:36;not null;index"`
	StrokeUUID  string `json:"stroke_uuid" gorm:"size:36;not null;uniqueIndex:uniq_stroke_idx"`

	// Idx reconstructs the original sampling order within the stroke.
	Idx int `json:"idx" gorm:"not null;uniqueIndex:uniq_stroke_idx"`

	// TMs is relative to the stroke's own start, not the session start.
	TMs int `json:"t_ms" gorm:"not null"`
	X   int `json:"x" gorm:"not null"`
	Y   int `json:"y" gorm:"not null"`

	// NULL when the pointing device does not report the capability.
	Pressure *float64 `json:"pressure,omitempty"`
	TiltX    *int     `json:"tilt_x,omitempty"`
	TiltY    *int     `json:"tilt_y,omitempty"`
	Twist    *int     `json:"twist,omitempty"`
	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`

	PointerType string `json:"pointer_type" gorm:"size:16;not null"`
	PointerID   *int   `json:"pointer_id,omitempty"`
	Buttons     int    `json:"buttons" gorm:"default:0"`
}

func (StrokePoint) TableName() string {
	return "stroke_points"
}

// Event is an append-only UI log entry. Identical (session, ts, type)
// triples are allowed on purpose.
type Event struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionUUID string         `json:"session_uuid" gorm:"size:36;not null;index:idx_events_session_ts"`
	TsMs        int            `json:"ts_ms" gorm:"not null;index:idx_events_session_ts"`
	Type        string         `json:"type" gorm:"size:32;not null;index"`
	Details     datatypes.JSON `json:"details,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// Evaluation is the structured grading result returned to the client.
// Scores are integers in [0,100].
type Evaluation struct {
	TotalScore       int    `json:"total_score"`
	LogicScore       int    `json:"logic_score"`
	AccuracyScore    int    `json:"accuracy_score"`
	ProcessScore     int    `json:"process_score"`
	IsCorrect        bool   `json:"is_correct"`
	Comment          string `json:"comment"`
	DetailedFeedback string `json:"detailed_feedback"`
}
