package network

import (
	"sort"
	"sync"
)

// maxRecentRTTs is how many round trips are kept for the ping estimate
const maxRecentRTTs = 10

// latencyTracker estimates the round trip time to the server and the
// server clock from the timestamps carried by world snapshots.
type latencyTracker struct {
	mu         sync.Mutex
	recentRTTs []int64
	ping       float64
	offset     int64
}

// record adds one round trip that was sent at sentAt, received at receivedAt
// and answered by a server clock reading of serverTime.
func (t *latencyTracker) record(sentAt, receivedAt, serverTime int64) {
	rtt := receivedAt - sentAt
	if rtt < 0 {
		rtt = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.recentRTTs = append(t.recentRTTs, rtt)
	for len(t.recentRTTs) > maxRecentRTTs {
		t.recentRTTs = t.recentRTTs[1:]
	}

	sampleRTTs := removeOutlierRTTs(t.recentRTTs)
	ping := 0.0
	for _, p := range sampleRTTs {
		ping += float64(p)
	}
	if len(sampleRTTs) > 0 {
		ping /= float64(len(sampleRTTs))
	}
	t.ping = ping
	t.offset = serverTime + rtt/2 - receivedAt
}

// estimate returns the smoothed ping in milliseconds and the offset to add to
// the local clock to approximate the server clock.
func (t *latencyTracker) estimate() (ping float64, offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ping, t.offset
}

// removeOutlierRTTs removes outler RTTs from the recent RTTs.
// An outlier RTT is defined as an RTT that is greater than 2 times the median RTT
// and is also greater than 20ms.
func removeOutlierRTTs(recentRTTs []int64) []int64 {
	result := make([]int64, 0)
	medianRTT := medianRTT(recentRTTs)
	for i := 0; i < len(recentRTTs); i++ {
		if recentRTTs[i] > 2*medianRTT && recentRTTs[i] > 20 {
			continue
		}
		result = append(result, recentRTTs[i])
	}
	return result
}

// medianRTT returns the median RTT from a slice of RTTs.
func medianRTT(recentRTTs []int64) int64 {
	if len(recentRTTs) == 0 {
		return 0
	}
	sortedRTTs := make([]int64, len(recentRTTs))
	copy(sortedRTTs, recentRTTs)
	sort.Slice(sortedRTTs, func(i, j int) bool {
		return sortedRTTs[i] < sortedRTTs[j]
	})
	if len(sortedRTTs)%2 == 0 {
		return (sortedRTTs[len(sortedRTTs)/2-1] + sortedRTTs[len(sortedRTTs)/2]) / 2
	}
	return sortedRTTs[len(sortedRTTs)/2]
}
