/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Package documentation
 */

/*
Package ipp implements the client side of the IPP wire codec.

It encodes requests, built from insertion-ordered attribute sets, into
the binary representation defined by RFC 8010, and decodes responses
back into a group-partitioned attribute tree:

	enc := ipp.NewEncoder(ipp.NewRegistry())

	var op ipp.Attributes
	op.Add("printer-uri", ipp.Scalar(ipp.String(uri)))
	op.Add("requested-attributes",
		ipp.Strings("printer-name", "printer-state"))

	req, err := enc.BuildRequest(goipp.OpGetPrinterAttributes, 1,
		&op, nil, nil)

	...

	msg, err := ipp.DecodeMessage(reply, false)
	if err == nil {
		err = ipp.Validate(msg)
	}

	for _, prn := range msg.Printers {
		state, _ := prn.Value("printer-state").(ipp.PrinterState)
		...
	}

Protocol vocabulary (tags, operation and status codes) comes from
the github.com/OpenPrinting/goipp package.

Multi-valued attributes are represented explicitly: an AttrValue is
either a Scalar or a Sequence. On the wire, a sequence is encoded
as a named record followed by records with empty names, and the
decoder folds such records back into a Sequence.

The Registry maps attribute names into value tags, so callers
may omit tags for the well-known attributes. Registry is not
synchronized; it is meant to be configured before the first use.
*/
package ipp
