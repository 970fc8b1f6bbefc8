/*
Package smolbox is the pipeline state engine behind a sequence of independently
invoked processing steps.

Each step asks the engine where to read its model or dataset from and where to
write its output. The engine keeps a small Record on disk, resolves explicit or
automatic requests against it, allocates fresh output directories on demand,
and advances the Record from one stage to the next by rotating outputs into
inputs while archiving every previous Record to an append-only history.

# Layout

All state lives under a root directory (<cwd>/.smolbox, or /content/.smolbox in
a hosted notebook sandbox):

  - state.json: the current Record, pretty-printed with sorted keys.
  - state_history.jsonl: one archived Record per line.
  - models/: externally populated, listed read-only.
  - <uuid>/: one directory per allocated output location.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/smolbox"
		"github.com/aretw0/smolbox/pkg/domain"
	)

	func main() {
		eng, err := smolbox.New()
		if err != nil {
			log.Fatal(err)
		}
		ctx := context.Background()

		// Input must already be known from a previous stage or set explicitly.
		in, err := eng.Resolve(ctx, domain.KeyModelPath, domain.Auto(), false)
		if err != nil {
			log.Fatal(err)
		}

		// Output is allocated on first request and stable until Advance.
		out, err := eng.Resolve(ctx, domain.KeyOutputModelPath, domain.Auto(), true)
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("training %s -> %s", in, out)

		// The output becomes the next stage's input.
		if _, err := eng.Advance(ctx); err != nil {
			log.Fatal(err)
		}
	}
*/
package smolbox
