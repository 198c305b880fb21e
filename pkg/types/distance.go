package types

import "bytes"

// ============================================================================
//                              Distance - XOR 距离
// ============================================================================

// Distance 两个 PeerID 之间的 XOR 距离
//
// 按大端无符号整数解释；等长距离的字典序比较与数值比较等价。
type Distance []byte

// XORDistance 计算两个 PeerID 的 XOR 距离
//
// 两个 ID 长度必须一致，否则返回 ErrIDLengthMismatch。
func XORDistance(a, b PeerID) (Distance, error) {
	if len(a) != len(b) {
		return nil, ErrIDLengthMismatch
	}
	d := make(Distance, len(a))
	for i := range a {
		d[i] = a[i] ^ b[i]
	}
	return d, nil
}

// Cmp 比较两个距离
// 返回：
//
//	-1 如果 d < other
//	 0 如果 d == other
//	 1 如果 d > other
func (d Distance) Cmp(other Distance) int {
	return bytes.Compare(d, other)
}

// Less 判断 d 是否严格小于 other
func (d Distance) Less(other Distance) bool {
	return d.Cmp(other) < 0
}

// IsZero 检查距离是否为 0（即两个 ID 相同）
func (d Distance) IsZero() bool {
	for _, b := range d {
		if b != 0 {
			return false
		}
	}
	return true
}

// CompareDistance 比较 a 和 b 到 target 的距离
// 返回：
//
//	-1 如果 dist(a, target) < dist(b, target)
//	 0 如果 dist(a, target) == dist(b, target)
//	 1 如果 dist(a, target) > dist(b, target)
func CompareDistance(a, b, target PeerID) (int, error) {
	distA, err := XORDistance(a, target)
	if err != nil {
		return 0, err
	}
	distB, err := XORDistance(b, target)
	if err != nil {
		return 0, err
	}
	return distA.Cmp(distB), nil
}

// CommonPrefixLen 计算两个 PeerID 的共同前缀长度（按位计数）
func CommonPrefixLen(a, b PeerID) (int, error) {
	distance, err := XORDistance(a, b)
	if err != nil {
		return 0, err
	}

	zeroBits := 0
	for _, v := range distance {
		if v == 0 {
			zeroBits += 8
			continue
		}
		for mask := byte(0x80); mask > 0; mask >>= 1 {
			if v&mask != 0 {
				return zeroBits, nil
			}
			zeroBits++
		}
	}
	return zeroBits, nil
}
