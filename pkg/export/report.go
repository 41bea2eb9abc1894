package export

// Report builds the completion summary for a finished run. It is pure
// reporting: it performs no further state mutation and should be called
// exactly once, after the run reaches StateComplete or StateFailed.
//
// A nil run (initialization failed before a run existed) produces a
// failure summary carrying only the error.
func Report(run *Run, runErr error) Summary {
	if run == nil {
		s := Summary{Success: false}
		if runErr != nil {
			s.Error = runErr.Error()
		}
		return s
	}

	s := Summary{
		RunID:       run.ID,
		Success:     run.state == StateComplete && runErr == nil,
		RecordCount: run.Processed,
		Artifact:    run.artifactName,
		RowIDs:      run.Results,
	}
	if runErr != nil {
		s.Error = runErr.Error()
	}
	return s
}
