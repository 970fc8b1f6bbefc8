/*
Package domain contains the core domain models of the smolbox pipeline state.

It defines the Record that travels between independently invoked processing
steps, the fixed key allow-list and its input/output pairs, the Value type used
to request explicit or automatic resolution, and the sentinel errors shared by
every adapter. The package is kept free of I/O and persistence.

# Key Entities

  - Record: the current pipeline snapshot (model/dataset paths plus timestamps).
  - Key, Pair: the allow-list and the input/output pairs rotated between stages.
  - Value: Explicit(path) or Auto(), replacing a magic sentinel string.
  - RecordDiff: the field changes produced by a stage transition.
*/
package domain
