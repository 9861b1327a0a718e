package knowledge

import "context"

// seedDocs is the starter corpus installed into an empty store so retrieval
// has something useful to say before anyone uploads reference material.
var seedDocs = []struct {
	text     string
	metadata map[string]string
}{
	{
		text:     "AMBA AXI Protocol: Separate address/control and data phases. Support for burst transactions. Five independent channels: read address, read data, write address, write data, write response.",
		metadata: map[string]string{"type": "protocol", "source": "axi"},
	},
	{
		text:     "UART Protocol: Asynchronous serial communication. Start bit, data bits (5-8), optional parity bit, stop bit(s). Common baud rates: 9600, 115200.",
		metadata: map[string]string{"type": "protocol", "source": "uart"},
	},
	{
		text:     "FSM Design: Use one-hot encoding for better timing. Separate combinational and sequential logic. Include reset functionality.",
		metadata: map[string]string{"type": "design_pattern", "source": "fsm"},
	},
	{
		text:     "PPA Optimization: Use clock gating for power reduction. Pipeline design for performance. Resource sharing for area optimization.",
		metadata: map[string]string{"type": "optimization", "source": "ppa"},
	},
}

// Seed installs the default corpus when the store is empty. It is a no-op
// on a populated store.
func Seed(ctx context.Context, store Store) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, doc := range seedDocs {
		if _, err := store.Insert(ctx, doc.text, doc.metadata); err != nil {
			return err
		}
	}
	return nil
}
