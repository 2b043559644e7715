package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// promptCoordinates asks for a column and a row on stdout and reads them from
// stdin, one per prompt. Both may also be given on one line.
func promptCoordinates(stdin io.Reader, stdout io.Writer, width, height int) (x, y int, err error) {
	sc := bufio.NewScanner(stdin)
	sc.Split(bufio.ScanWords)

	next := func(prompt string) (int, error) {
		fmt.Fprint(stdout, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		v, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return 0, fmt.Errorf("invalid coordinate %q: %w", sc.Text(), err)
		}
		return v, nil
	}

	if x, err = next(fmt.Sprintf("Check a pixel. Enter X from 0 to %d: ", width-1)); err != nil {
		return 0, 0, err
	}
	if y, err = next(fmt.Sprintf("Enter Y from 0 to %d: ", height-1)); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
