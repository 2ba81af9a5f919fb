package casedata

// EventType names a case store event.
type EventType string

const (
	EventAppealReceived                   EventType = "appealReceived"
	EventAppealCreated                    EventType = "appealCreated"
	EventValidAppeal                      EventType = "validAppeal"
	EventValidAppealCreated               EventType = "validAppealCreated"
	EventDwpRespond                       EventType = "dwpRespond"
	EventHearingBooked                    EventType = "hearingBooked"
	EventAdjourned                        EventType = "adjourned"
	EventPostponed                        EventType = "postponed"
	EventWithdrawn                        EventType = "withdrawn"
	EventEvidenceReceived                 EventType = "evidenceReceived"
	EventCaseUpdated                      EventType = "caseUpdated"
	EventDirectionIssued                  EventType = "directionIssued"
	EventDecisionIssued                   EventType = "decisionIssued"
	EventDirectionIssuedWelsh             EventType = "directionIssuedWelsh"
	EventDecisionIssuedWelsh              EventType = "decisionIssuedWelsh"
	EventIssueFinalDecision               EventType = "issueFinalDecision"
	EventCreateBundle                     EventType = "createBundle"
	EventSendToDwp                        EventType = "sendToDwp"
	EventUploadDocument                   EventType = "uploadDocument"
	EventUpdateTranslationWorkOutstanding EventType = "updateTranslationWorkOutstanding"
)

func (e EventType) String() string { return string(e) }
