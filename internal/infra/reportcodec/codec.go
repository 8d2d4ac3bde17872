package reportcodec

import (
	"fmt"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldInstance = "instance"
	fieldKeyword  = "keyword"
	fieldMessage  = "message"
)

// EncodeViolations serializes violations as a deterministic protobuf
// ListValue of Struct entries. A nil or empty slice encodes to nil.
func EncodeViolations(violations []domain.Violation) ([]byte, error) {
	if len(violations) == 0 {
		return nil, nil
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(violations))}
	for _, violation := range violations {
		entry := &structpb.Struct{Fields: map[string]*structpb.Value{
			fieldInstance: structpb.NewStringValue(violation.InstanceLocation),
			fieldKeyword:  structpb.NewStringValue(violation.KeywordLocation),
			fieldMessage:  structpb.NewStringValue(violation.Message),
		}}
		list.Values = append(list.Values, structpb.NewStructValue(entry))
	}

	return proto.MarshalOptions{Deterministic: true}.Marshal(list)
}

func DecodeViolations(data []byte) ([]domain.Violation, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode violations: %w", err)
	}

	violations := make([]domain.Violation, 0, len(list.Values))
	for i, value := range list.Values {
		entry := value.GetStructValue()
		if entry == nil {
			return nil, fmt.Errorf("decode violations: entry %d is not a struct", i)
		}
		violations = append(violations, domain.Violation{
			InstanceLocation: entry.Fields[fieldInstance].GetStringValue(),
			KeywordLocation:  entry.Fields[fieldKeyword].GetStringValue(),
			Message:          entry.Fields[fieldMessage].GetStringValue(),
		})
	}
	return violations, nil
}
