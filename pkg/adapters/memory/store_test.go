package memory_test

import (
	"testing"

	"github.com/aretw0/smolbox/pkg/adapters/memory"
	"github.com/aretw0/smolbox/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunRecordStoreContract(t, memory.NewStore())
}

func TestMemoryStore_HistoryContract(t *testing.T) {
	ports.RunHistoryLogContract(t, memory.NewStore())
}
