package metrics

// InitializeMetrics pre-populates expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, class := range []string{"image", "video", "audio"} {
		PipelineFilesProcessed.WithLabelValues(class, "ok")
		PipelineFilesProcessed.WithLabelValues(class, "failed")
		PipelineRenderDuration.WithLabelValues(class)
	}
	PipelineFilesProcessed.WithLabelValues("unrecognized", "failed")

	for _, status := range []string{"ok", "error"} {
		PipelineBatchesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"initialize_schema", "insert_file", "delete_files",
		"assign_tags", "remove_tags", "files_by_tags", "files_by_text", "vacuum"} {
		CatalogQueryTotal.WithLabelValues(op, "success")
		CatalogQueryTotal.WithLabelValues(op, "error")
		CatalogQueryDuration.WithLabelValues(op)
	}

	for _, op := range []string{"write", "remove", "mkdir"} {
		FilesystemRetriesTotal.WithLabelValues(op)
	}
}
