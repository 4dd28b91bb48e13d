package caseevent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip_Typed(t *testing.T) {
	in := ShippingEvidence{
		TrackingNumber:  "1Z999AA10123456784",
		Carrier:         "UPS",
		DeliveryAddress: "billing address on file",
		SignatureName:   "J. Rodriguez",
	}

	data, err := EncodePayload(in)
	require.NoError(t, err)

	out, err := DecodePayload(TypeShippingEvidence, data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestPayloadRoundTrip_FraudIndicators(t *testing.T) {
	in := FraudIndicators{AVSMatch: "N", CVVMatch: "N", IPReputation: "known_proxy"}

	data, err := EncodePayload(in)
	require.NoError(t, err)
	// The 3DS field keeps its legacy wire name.
	require.Contains(t, string(data), `"3ds_used"`)

	out, err := DecodePayload(TypeFraudIndicators, data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodePayload_UnknownTagFallsBackToOpaque(t *testing.T) {
	out, err := DecodePayload("chargeback_representment", []byte(`{"stage":"pre_arbitration","filed_by":"merchant"}`))
	require.NoError(t, err)

	op, ok := out.(Opaque)
	require.True(t, ok, "expected Opaque, got %T", out)
	require.Equal(t, "chargeback_representment", op.EventType())
	require.Equal(t, "pre_arbitration", op.Fields["stage"])
}

func TestDecodePayload_NilData(t *testing.T) {
	out, err := DecodePayload(TypeLogin, nil)
	require.NoError(t, err)
	require.Equal(t, Opaque{Type: TypeLogin}, out)
}

func TestEncodePayload_OpaqueMarshalsFieldsOnly(t *testing.T) {
	data, err := EncodePayload(Opaque{
		Type:   "resolution",
		Fields: map[string]any{"outcome": "won"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"outcome":"won"}`, string(data))
}

func TestDecodePayload_MalformedJSON(t *testing.T) {
	_, err := DecodePayload(TypeSupportTicket, []byte(`{"ticket_id":`))
	require.Error(t, err)
}
