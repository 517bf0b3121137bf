package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"arbScope/internal/model"
)

// SwapDecoder turns raw log records into typed swap events for both V2
// pairs and V3 pools. Pure over its input; safe for concurrent use.
type SwapDecoder struct {
	topicToProtocol map[string]model.Protocol
}

// NewSwapDecoder builds a decoder recognizing the V2 and V3 Swap topics.
func NewSwapDecoder() *SwapDecoder {
	return &SwapDecoder{
		topicToProtocol: map[string]model.Protocol{
			strings.ToLower(TopicV2Swap.Hex()): model.ProtocolV2,
			strings.ToLower(TopicV3Swap.Hex()): model.ProtocolV3,
		},
	}
}

// CanDecode checks if the topic0 is a supported Swap signature.
func (d *SwapDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToProtocol[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a SwapEventRecord.
func (d *SwapDecoder) Decode(record model.LogRecord) (*model.SwapEventRecord, error) {
	if len(record.Topics) == 0 {
		return nil, fmt.Errorf("%w: missing topics", model.ErrMalformedLog)
	}
	protocol, ok := d.topicToProtocol[strings.ToLower(record.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported topic0: %s", model.ErrMalformedLog, record.Topics[0])
	}

	if !common.IsHexAddress(record.Address) {
		return nil, fmt.Errorf("%w: invalid pool address: %s", model.ErrMalformedLog, record.Address)
	}
	pool := common.HexToAddress(record.Address)

	topics, err := parseTopicHashes(record.Topics)
	if err != nil {
		return nil, err
	}
	data, err := hexutil.Decode(record.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid data: %v", model.ErrMalformedLog, err)
	}

	var swap model.SwapEvent
	switch protocol {
	case model.ProtocolV2:
		swap, err = decodeV2SwapLog(pool, topics, data)
	case model.ProtocolV3:
		swap, err = decodeV3SwapLog(pool, topics, data)
	default:
		err = fmt.Errorf("%w: unsupported protocol: %s", model.ErrMalformedLog, protocol)
	}
	if err != nil {
		return nil, err
	}

	return &model.SwapEventRecord{
		Swap:        swap,
		TxHash:      common.HexToHash(record.TxHash),
		BlockNumber: record.BlockNumber,
		TxIndex:     record.TxIndex,
		LogIndex:    record.LogIndex,
	}, nil
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid topic: %v", model.ErrMalformedLog, err)
		}
		if len(data) != 32 {
			return nil, fmt.Errorf("%w: topic must be 32 bytes, got %d", model.ErrMalformedLog, len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}
