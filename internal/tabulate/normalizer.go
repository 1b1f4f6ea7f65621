package tabulate

import (
	"github.com/google/uuid"

	"docketflow/internal/domain"
)

// rowMeta is the document linkage stamped onto every row an artifact
// produces.
type rowMeta struct {
	sourceFile string
	fileID     string
	documentID string
	caseID     string
}

// normalizeIncident mints surrogate identifiers for one incident and its
// nested parties and harms, and appends the flattened rows to the table set.
// The incident's local id must already be validated by the caller.
func normalizeIncident(ts *domain.TableSet, meta rowMeta, inc RawIncident) {
	incidentUUID := uuid.New()

	ts.Incidents = append(ts.Incidents, domain.Incident{
		IncidentUUID:   incidentUUID,
		SourceFile:     meta.sourceFile,
		FileID:         meta.fileID,
		DocumentID:     meta.documentID,
		CaseID:         meta.caseID,
		IncidentID:     *inc.IncidentID,
		LocationStreet: inc.LocationStreet,
		LocationCity:   inc.LocationCity,
		LocationCounty: inc.LocationCounty,
		LocationState:  inc.LocationState,
		LocationZip:    inc.LocationZip,
		LocationType:   inc.LocationType,
	})

	for _, p := range inc.Plaintiffs {
		ts.Plaintiffs = append(ts.Plaintiffs, domain.Plaintiff{
			PlaintiffUUID:     uuid.New(),
			IncidentUUID:      incidentUUID,
			SourceFile:        meta.sourceFile,
			FileID:            meta.fileID,
			DocumentID:        meta.documentID,
			CaseID:            meta.caseID,
			PlaintiffID:       p.PlaintiffID,
			Name:              p.Name,
			Race:              p.Race,
			Gender:            p.Gender,
			DisabilityStatus:  p.DisabilityStatus,
			ImmigrationStatus: p.ImmigrationStatus,
		})
	}

	for _, d := range inc.Defendants {
		ts.Defendants = append(ts.Defendants, domain.Defendant{
			DefendantUUID:  uuid.New(),
			IncidentUUID:   incidentUUID,
			SourceFile:     meta.sourceFile,
			FileID:         meta.fileID,
			DocumentID:     meta.documentID,
			CaseID:         meta.caseID,
			DefendantID:    d.DefendantID,
			Name:           d.Name,
			Race:           d.Race,
			Gender:         d.Gender,
			DoeStatus:      d.DoeStatus,
			EntityType:     d.EntityType,
			Agency:         d.Agency,
			AgencyType:     d.AgencyType,
			RoleInIncident: d.RoleInIncident,
		})
	}

	for _, h := range inc.Harms {
		// One Harm row per non-blank harm type; each carries the full
		// association lists of its source record.
		for _, harmType := range domain.SplitDelimited(h.Type) {
			ts.Harms = append(ts.Harms, domain.Harm{
				HarmUUID:               uuid.New(),
				IncidentUUID:           incidentUUID,
				SourceFile:             meta.sourceFile,
				FileID:                 meta.fileID,
				DocumentID:             meta.documentID,
				CaseID:                 meta.caseID,
				HarmType:               harmType,
				AssociatedPlaintiffIDs: string(h.AssociatedPlaintiffIDs),
				AssociatedDefendantIDs: string(h.AssociatedDefendantIDs),
			})
		}
	}
}
