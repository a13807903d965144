//go:build !linux
// +build !linux

package harness

import "errors"

func pin(int) (func(), error) {
	return nil, errors.New("CPU pinning is only supported on linux")
}

func threadID() int {
	return 0
}
