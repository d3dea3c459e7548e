package contract

import "github.com/alexanderramin/studyplan/internal/app"

type RescheduleRequest = app.RescheduleRequest

func NewRescheduleRequest(groupID, today string) RescheduleRequest {
	return app.NewRescheduleRequest(groupID, today)
}

type RescheduleResponse = app.RescheduleResponse
