package tabulate

import (
	"github.com/google/uuid"

	"docketflow/internal/domain"
)

// partyKey scopes a local id to its incident. Local ids are never resolved
// by the bare integer.
type partyKey struct {
	incident uuid.UUID
	localID  domain.LocalID
}

// buildJunctions explodes each harm's association lists and resolves every
// token against the parties of the harm's own incident. An unresolved token
// yields a junction row with a nil party reference and is counted, never
// dropped. Duplicate local ids within an incident yield one row per match;
// picking a winner would hide the model defect.
func buildJunctions(ts *domain.TableSet) (unresolvedPlaintiffs, unresolvedDefendants int) {
	plaintiffIdx := make(map[partyKey][]*domain.Plaintiff)
	for i := range ts.Plaintiffs {
		p := &ts.Plaintiffs[i]
		key := partyKey{incident: p.IncidentUUID, localID: p.PlaintiffID}
		plaintiffIdx[key] = append(plaintiffIdx[key], p)
	}
	defendantIdx := make(map[partyKey][]*domain.Defendant)
	for i := range ts.Defendants {
		d := &ts.Defendants[i]
		key := partyKey{incident: d.IncidentUUID, localID: d.DefendantID}
		defendantIdx[key] = append(defendantIdx[key], d)
	}

	for i := range ts.Harms {
		h := &ts.Harms[i]

		for _, id := range domain.SplitLocalIDs(h.AssociatedPlaintiffIDs) {
			row := domain.HarmPlaintiff{
				HarmUUID:     h.HarmUUID,
				IncidentUUID: h.IncidentUUID,
				SourceFile:   h.SourceFile,
				FileID:       h.FileID,
				DocumentID:   h.DocumentID,
				CaseID:       h.CaseID,
				HarmType:     h.HarmType,
				PlaintiffID:  id,
			}
			matches := plaintiffIdx[partyKey{incident: h.IncidentUUID, localID: id}]
			if len(matches) == 0 {
				unresolvedPlaintiffs++
				ts.HarmPlaintiffs = append(ts.HarmPlaintiffs, row)
				continue
			}
			for _, p := range matches {
				resolved := row
				puuid := p.PlaintiffUUID
				resolved.PlaintiffUUID = &puuid
				resolved.PlaintiffName = p.Name
				resolved.PlaintiffRace = p.Race
				resolved.PlaintiffGender = p.Gender
				resolved.PlaintiffDisabilityStatus = p.DisabilityStatus
				resolved.PlaintiffImmigrationStatus = p.ImmigrationStatus
				ts.HarmPlaintiffs = append(ts.HarmPlaintiffs, resolved)
			}
		}

		for _, id := range domain.SplitLocalIDs(h.AssociatedDefendantIDs) {
			row := domain.HarmDefendant{
				HarmUUID:     h.HarmUUID,
				IncidentUUID: h.IncidentUUID,
				SourceFile:   h.SourceFile,
				FileID:       h.FileID,
				DocumentID:   h.DocumentID,
				CaseID:       h.CaseID,
				HarmType:     h.HarmType,
				DefendantID:  id,
			}
			matches := defendantIdx[partyKey{incident: h.IncidentUUID, localID: id}]
			if len(matches) == 0 {
				unresolvedDefendants++
				ts.HarmDefendants = append(ts.HarmDefendants, row)
				continue
			}
			for _, d := range matches {
				resolved := row
				duuid := d.DefendantUUID
				resolved.DefendantUUID = &duuid
				resolved.DefendantName = d.Name
				resolved.DefendantRace = d.Race
				resolved.DefendantGender = d.Gender
				resolved.DefendantDoeStatus = d.DoeStatus
				resolved.DefendantEntityType = d.EntityType
				resolved.DefendantAgency = d.Agency
				resolved.DefendantAgencyType = d.AgencyType
				resolved.DefendantRoleInIncident = d.RoleInIncident
				ts.HarmDefendants = append(ts.HarmDefendants, resolved)
			}
		}
	}

	return unresolvedPlaintiffs, unresolvedDefendants
}
