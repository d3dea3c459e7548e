package contract

import "github.com/alexanderramin/studyplan/internal/app"

type WindowSettings = app.WindowSettings

type Booking = app.Booking

type AdditionalPeriodRequest = app.AdditionalPeriodRequest

type FactorOverrides = app.FactorOverrides

type PlanRequest = app.PlanRequest

func NewPlanRequest(periodStart, periodEnd string) PlanRequest {
	return app.NewPlanRequest(periodStart, periodEnd)
}

type DayPlan = app.DayPlan

type AcademyStat = app.AcademyStat

type AvailabilitySummary = app.AvailabilitySummary

type PlanResponse = app.PlanResponse

type CommitResult = app.CommitResult

type ImportResult = app.ImportResult
