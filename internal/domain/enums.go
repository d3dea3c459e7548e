package domain

type DayType string

const (
	DayStudy             DayType = "study"
	DayReview            DayType = "review"
	DayDesignatedHoliday DayType = "designated_holiday"
	DayVacation          DayType = "vacation"
	DayPersonal          DayType = "personal"
	DayExcluded          DayType = "excluded"
)

type ExclusionType string

const (
	ExclusionVacation          ExclusionType = "vacation"
	ExclusionPersonalReason    ExclusionType = "personal_reason"
	ExclusionDesignatedHoliday ExclusionType = "designated_holiday"
	ExclusionOther             ExclusionType = "other"
)

func (t ExclusionType) Valid() bool {
	switch t {
	case ExclusionVacation, ExclusionPersonalReason, ExclusionDesignatedHoliday, ExclusionOther:
		return true
	}
	return false
}

// DayType maps an exclusion to the day type it produces.
func (t ExclusionType) DayType() DayType {
	switch t {
	case ExclusionVacation:
		return DayVacation
	case ExclusionPersonalReason:
		return DayPersonal
	case ExclusionDesignatedHoliday:
		return DayDesignatedHoliday
	default:
		return DayExcluded
	}
}

type ContentType string

const (
	ContentBook    ContentType = "book"
	ContentLecture ContentType = "lecture"
	ContentCustom  ContentType = "custom"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentBook, ContentLecture, ContentCustom:
		return true
	}
	return false
}

type SubjectType string

const (
	SubjectStrategy SubjectType = "strategy"
	SubjectWeakness SubjectType = "weakness"
)

func (t SubjectType) Valid() bool {
	return t == SubjectStrategy || t == SubjectWeakness
}

type StudentLevel string

const (
	LevelHigh   StudentLevel = "high"
	LevelMedium StudentLevel = "medium"
	LevelLow    StudentLevel = "low"
)

func (l StudentLevel) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

type SlotKind string

const (
	SlotStudy     SlotKind = "study"
	SlotLunch     SlotKind = "lunch"
	SlotAcademy   SlotKind = "academy"
	SlotTravel    SlotKind = "travel"
	SlotSelfStudy SlotKind = "self_study"
)

type SessionKind string

const (
	SessionStudy            SessionKind = "study"
	SessionReview           SessionKind = "review"
	SessionAdditionalReview SessionKind = "additional_review"
)

type PlanStatus string

const (
	PlanPending    PlanStatus = "pending"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanCanceled   PlanStatus = "canceled"
)

type ShortfallPolicy string

const (
	ShortfallReport    ShortfallPolicy = "report"
	ShortfallCarryOver ShortfallPolicy = "carry_over"
	ShortfallAbort     ShortfallPolicy = "abort"
)

func (p ShortfallPolicy) Valid() bool {
	switch p {
	case ShortfallReport, ShortfallCarryOver, ShortfallAbort:
		return true
	}
	return false
}
