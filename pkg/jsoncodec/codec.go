// pkg/jsoncodec/codec.go
package jsoncodec

import (
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Name is the gRPC content-subtype served by this codec ("application/grpc+json").
const Name = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals gRPC messages as JSON. Protobuf messages go through
// protojson, plain Go structs through sonic in encoding/json compatible mode.
type Codec struct{}

// Marshal encodes v
func (Codec) Marshal(v interface{}) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal decodes data into v
func (Codec) Unmarshal(data []byte, v interface{}) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

// Name returns the content-subtype
func (Codec) Name() string {
	return Name
}
