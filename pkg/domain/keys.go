package domain

// Key names a field of the pipeline Record.
type Key string

const (
	KeyModelPath         Key = "model_path"
	KeyOutputModelPath   Key = "output_model_path"
	KeyDatasetPath       Key = "dataset_path"
	KeyOutputDatasetPath Key = "output_dataset_path"
)

// Timestamp fields. They are the only non-domain keys accepted by bulk updates.
const (
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// AllowedKeys is the domain allow-list, in display order.
var AllowedKeys = []Key{
	KeyModelPath,
	KeyOutputModelPath,
	KeyDatasetPath,
	KeyOutputDatasetPath,
}

// WritableKeys are the keys eligible for fresh location allocation.
var WritableKeys = []Key{
	KeyOutputModelPath,
	KeyOutputDatasetPath,
}

// Pair binds the input field a stage reads from to the output field it writes to.
type Pair struct {
	Input  Key
	Output Key
}

// Pairs lists the logical input/output pairs rotated on every stage transition.
var Pairs = []Pair{
	{Input: KeyModelPath, Output: KeyOutputModelPath},
	{Input: KeyDatasetPath, Output: KeyOutputDatasetPath},
}

// Valid reports whether k is in the domain allow-list.
func (k Key) Valid() bool {
	for _, allowed := range AllowedKeys {
		if k == allowed {
			return true
		}
	}
	return false
}

// Writable reports whether k may be auto-allocated in output role.
func (k Key) Writable() bool {
	for _, w := range WritableKeys {
		if k == w {
			return true
		}
	}
	return false
}

func (k Key) String() string {
	return string(k)
}

// updatable reports whether a bulk update may touch the field.
func updatable(field string) bool {
	return Key(field).Valid() || field == FieldCreatedAt || field == FieldUpdatedAt
}
