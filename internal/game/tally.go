package game

// Tally computes round results from the final vote set. Votes are counted in
// cast order; the voted-out target is the first one to reach the highest
// count. Humans win only when that target is the impostor and it holds a
// strict majority of the human ballots. Only labels leave this function.
func Tally(votes []Vote, labels *Anonymizer, impostorID, virtualID string) Results {
	results := Results{
		Breakdown: make(map[string][]string),
	}
	if label, ok := labels.LabelFor(impostorID); ok {
		results.AIParticipantLabel = label
	}

	counts := make(map[string]int)
	humanCounts := make(map[string]int)
	humanBallots := 0
	votedOut := ""
	best := 0
	for _, vote := range votes {
		targetLabel, ok := labels.LabelFor(vote.TargetID)
		if !ok {
			continue
		}
		voterLabel, ok := labels.LabelFor(vote.VoterID)
		if !ok {
			continue
		}
		results.Breakdown[targetLabel] = append(results.Breakdown[targetLabel], voterLabel)

		counts[vote.TargetID]++
		if vote.VoterID != virtualID {
			humanBallots++
			humanCounts[vote.TargetID]++
		}
		if counts[vote.TargetID] > best {
			best = counts[vote.TargetID]
			votedOut = vote.TargetID
		}
	}

	if votedOut == "" {
		return results
	}
	results.VotedOutLabel, _ = labels.LabelFor(votedOut)
	results.PlayersWin = votedOut == impostorID && 2*humanCounts[votedOut] > humanBallots
	return results
}
