package thumbs

// Event is one message from an in-flight generation batch. The pipeline
// emits events in completion order, which is not deterministic across
// runs; the channel closes after the terminal BatchFinished.
type Event interface {
	isEvent()
}

// Progress reports batch progress after every processed file.
type Progress struct {
	Done  int
	Total int
}

// FileReady reports one file whose artifact was generated and whose
// catalog row was written.
type FileReady struct {
	Name         string
	SourcePath   string
	ArtifactPath string
	Tags         []string
}

// FileFailed reports one file the pipeline could not process. The batch
// continues with the remaining files.
type FileFailed struct {
	SourcePath string
	Err        error
}

// BatchFinished is the terminal event of a batch. Err is non-nil when
// the batch was aborted by a catalog store failure.
type BatchFinished struct {
	Root string
	Err  error
}

func (Progress) isEvent()      {}
func (FileReady) isEvent()     {}
func (FileFailed) isEvent()    {}
func (BatchFinished) isEvent() {}
