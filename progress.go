package datatable

// ProgressStatus is the status code accompanying a progress report.
type ProgressStatus int

const (
	// ProgressRunning indicates the operation is still in progress.
	ProgressRunning ProgressStatus = 0
	// ProgressDone indicates the operation completed successfully.
	ProgressDone ProgressStatus = 1
	// ProgressError indicates the operation terminated with an error.
	ProgressError ProgressStatus = 2
	// ProgressInterrupted indicates the operation was cancelled by the host.
	ProgressInterrupted ProgressStatus = 3
)

// ProgressFn is the abstract progress callback: fraction is in [0,1].
// It is called at least at start (0, ProgressRunning) and at completion
// (1, ProgressDone), per spec.md §4.2.9.
type ProgressFn func(fraction float32, status ProgressStatus)
