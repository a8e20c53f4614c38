package vdom

// LongestIncreasingSubsequence returns the indexes of one longest strictly
// increasing subsequence of arr. Zero entries are skipped. It runs in
// O(n log n).
func LongestIncreasingSubsequence(arr []int) []int {
	pred := make([]int, len(arr))
	result := make([]int, 0, len(arr))

	for i, v := range arr {
		if v == 0 {
			continue
		}
		if n := len(result); n == 0 || arr[result[n-1]] < v {
			if n > 0 {
				pred[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}
		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < arr[result[lo]] {
			if lo > 0 {
				pred[i] = result[lo-1]
			}
			result[lo] = i
		}
	}

	if len(result) == 0 {
		return nil
	}
	last := result[len(result)-1]
	for k := len(result) - 1; k >= 0; k-- {
		result[k] = last
		last = pred[last]
	}
	return result
}
