package agent

import (
	"context"

	"heartbeat-agent/internal/domain"
)

type StatSampler interface {
	Sample(ctx context.Context) (domain.Status, error)
}

type AddressReader interface {
	IPAddr(ctx context.Context) (string, bool)
}

// Sampler assembles the heartbeat packet from the stats and the interface
// address. Only a stats failure is an error.
type Sampler struct {
	stats StatSampler
	addr  AddressReader
}

func NewSampler(stats StatSampler, addr AddressReader) *Sampler {
	return &Sampler{stats: stats, addr: addr}
}

func (s *Sampler) Collect(ctx context.Context) (*domain.Packet, error) {
	status, err := s.stats.Sample(ctx)
	if err != nil {
		return nil, err
	}

	packet := &domain.Packet{Status: status}
	if ip, ok := s.addr.IPAddr(ctx); ok {
		packet.IPAddr = &ip
	}

	return packet, nil
}
