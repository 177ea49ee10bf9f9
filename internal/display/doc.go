// Package display renders the webmonitor dashboard into the controlling
// terminal.
//
// The layout is computed once from the address list: a four-row frame whose
// second row names each address and whose third row holds one fixed-width
// data cell per address. Every refresh moves the cursor to each cell,
// blanks it and writes the new result, so nothing outside the cells is
// redrawn.
//
//	#####################################################
//	#     ok.example.com      #    down.example.com     #
//	#    HTTP 200 | 50ms      #    ERROR                #
//	#####################################################
//
// Screen coordinates are 1-based.
package display
