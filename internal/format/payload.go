package format

// Payload split arithmetic. When a cell's payload exceeds the page's
// local threshold, only a format-mandated prefix stays on the b-tree
// page and the rest spills to overflow pages. The formulas below must
// match the format exactly or overflow chains resolve at the wrong
// offsets; they are exercised against known-good values in tests.

// MaxLocalPayload is the largest payload stored entirely on a page of
// the given usable size. Index pages keep less locally than table
// leaves so that more keys fit per page.
func MaxLocalPayload(usableSize int, indexPage bool) int {
	if indexPage {
		return (usableSize-12)*64/255 - 23
	}
	return usableSize - 35
}

// MinLocalPayload is the smallest local prefix kept for a spilled
// payload.
func MinLocalPayload(usableSize int) int {
	return (usableSize-12)*32/255 - 23
}

// LocalPayloadSize returns the number of payload bytes stored on the
// b-tree page itself for a payload of total length payloadLen. When
// the result is less than payloadLen the remainder lives on an
// overflow chain.
func LocalPayloadSize(payloadLen int64, usableSize int, indexPage bool) int64 {
	maxLocal := int64(MaxLocalPayload(usableSize, indexPage))
	if payloadLen <= maxLocal {
		return payloadLen
	}
	minLocal := int64(MinLocalPayload(usableSize))
	k := minLocal + (payloadLen-minLocal)%int64(usableSize-4)
	if k <= maxLocal {
		return k
	}
	return minLocal
}
