// Package data provides pull-based, checkpointable data producers for training
// pipelines.
//
// Every stage of a pipeline implements Producer. Orchestration code calls Next
// until ErrEndOfData, and at checkpoint boundaries asks every producer to write
// its mutable position to a Tape. On resume, identically configured producers
// read the same tape back and continue exactly where the originals stopped.
//
// Example usage:
//
//	src := data.NewCountProducer(100)
//	_, _ = src.Next() // 100
//	_, _ = src.Next() // 101
//
//	tape := data.NewTape()
//	src.RecordPosition(tape)
//	blob, err := tape.MarshalBinary()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, possibly in another process.
//	restored := data.NewTape()
//	if err := restored.UnmarshalBinary(blob); err != nil {
//	    log.Fatal(err)
//	}
//	resumed := data.NewCountProducer(100)
//	if err := resumed.ReloadPosition(restored); err != nil {
//	    log.Fatal(err)
//	}
//	r, _ := resumed.Next() // 102
//
// Producers are not safe for concurrent use. Each consumer owns its instance.
package data
