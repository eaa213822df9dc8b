package api

import (
	"golang.org/x/sync/errgroup"
)

// Default batch implementations, used by backends that have no bulk algorithm of their own.
//
// The sequential versions are the default: they keep error reporting deterministic (the
// first failing index fails the batch). The parallel versions exploit that tokenizers are
// stateless across calls, so texts can be processed independently and collected by index.

// EncodeBatchSequential encodes every text in order with t.Encode, failing fast on the
// first error.
func EncodeBatchSequential(t Tokenizer, texts []string, addSpecialTokens bool) ([][]int32, error) {
	ret := make([][]int32, len(texts))
	for ii, text := range texts {
		ids, err := t.Encode(text, addSpecialTokens)
		if err != nil {
			return nil, err
		}
		ret[ii] = ids
	}
	return ret, nil
}

// DecodeBatchSequential decodes every id sequence in order with t.Decode, failing fast on
// the first error.
func DecodeBatchSequential(t Tokenizer, idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	ret := make([]string, len(idsBatch))
	for ii, ids := range idsBatch {
		text, err := t.Decode(ids, skipSpecialTokens)
		if err != nil {
			return nil, err
		}
		ret[ii] = text
	}
	return ret, nil
}

// EncodeBatchParallel encodes the texts concurrently, at most maxParallelism at a time
// (unbounded if maxParallelism <= 0). Results remain index-aligned with texts. If any text
// fails, the batch fails with the error of one failing text.
func EncodeBatchParallel(t Tokenizer, texts []string, addSpecialTokens bool, maxParallelism int) ([][]int32, error) {
	ret := make([][]int32, len(texts))
	var group errgroup.Group
	if maxParallelism > 0 {
		group.SetLimit(maxParallelism)
	}
	for ii, text := range texts {
		group.Go(func() error {
			ids, err := t.Encode(text, addSpecialTokens)
			if err != nil {
				return err
			}
			ret[ii] = ids
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// DecodeBatchParallel decodes the id sequences concurrently, at most maxParallelism at a
// time (unbounded if maxParallelism <= 0). Results remain index-aligned with idsBatch.
func DecodeBatchParallel(t Tokenizer, idsBatch [][]int32, skipSpecialTokens bool, maxParallelism int) ([]string, error) {
	ret := make([]string, len(idsBatch))
	var group errgroup.Group
	if maxParallelism > 0 {
		group.SetLimit(maxParallelism)
	}
	for ii, ids := range idsBatch {
		group.Go(func() error {
			text, err := t.Decode(ids, skipSpecialTokens)
			if err != nil {
				return err
			}
			ret[ii] = text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
