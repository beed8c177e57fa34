package events

import "strconv"

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatTimestamp(ts int64) string {
	return strconv.FormatInt(ts, 10)
}

func formatBps(bps uint64) string {
	whole := bps / 100
	frac := bps % 100
	return strconv.FormatUint(whole, 10) + "." + pad2(frac)
}

func pad2(v uint64) string {
	if v < 10 {
		return "0" + strconv.FormatUint(v, 10)
	}
	return strconv.FormatUint(v, 10)
}
