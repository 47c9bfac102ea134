package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/engine/capture"
	"TrafficScope/internal/mmdb"
	"TrafficScope/internal/model"
	"TrafficScope/internal/notification"
)

func main() {
	countryPath := flag.String("mmdb-country", "", "Path to a MaxMind country database")
	asnPath := flag.String("mmdb-asn", "", "Path to a MaxMind ASN database")
	savePath := flag.String("save", "", "Re-save analyzed packets to this pcap file")
	workers := flag.Int("workers", 0, "Concurrent host resolutions (0 for default)")
	top := flag.Int("top", 10, "Rows to print per report section")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path_to_pcap_file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	pcapFilePath := flag.Arg(0)

	readers := mmdb.Open(*countryPath, *asnPath)
	defer readers.Close()

	session := capture.NewSession(capture.Config{
		ResolverWorkers: *workers,
		SavePath:        *savePath,
	}, readers, notification.NewLogSink())

	if err := session.StartFile(pcapFilePath); err != nil {
		log.Fatalf("Failed to open pcap file: %v", err)
	}
	log.Infof("Replaying packets from %q...", pcapFilePath)
	session.Wait()

	printReport(session.Snapshot(), *top)
}

func printReport(traffic *model.InfoTraffic, top int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "\nTotal traffic\t\n")
	fmt.Fprintf(w, "  incoming\t%s\t%d packets\n",
		model.Bytes.FormattedString(traffic.TotData.IncomingBytes), traffic.TotData.IncomingPackets)
	fmt.Fprintf(w, "  outgoing\t%s\t%d packets\n",
		model.Bytes.FormattedString(traffic.TotData.OutgoingBytes), traffic.TotData.OutgoingPackets)
	if traffic.DroppedPackets > 0 {
		fmt.Fprintf(w, "  dropped\t%d packets\t\n", traffic.DroppedPackets)
	}

	fmt.Fprintf(w, "\nTop flows\t\t\t\n")
	for i, f := range traffic.FlowRecords() {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "  %s <-> %s\t%s\t%s\t%s\n",
			endpoint(f.Address1, f.Port1), endpoint(f.Address2, f.Port2),
			f.Protocol, f.Service, model.Bytes.FormattedString(f.TransmittedBytes))
	}

	fmt.Fprintf(w, "\nTop services\t\t\n")
	for i, s := range traffic.ServiceRecords() {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "  %s\t%s in\t%s out\n", s.Service,
			model.Bytes.FormattedString(s.Data.IncomingBytes),
			model.Bytes.FormattedString(s.Data.OutgoingBytes))
	}

	fmt.Fprintf(w, "\nTop hosts\t\t\t\n")
	for i, h := range traffic.HostRecords() {
		if i >= top {
			break
		}
		info := h.Country
		if h.AsnName != "" {
			if info != "" {
				info += " "
			}
			info += h.AsnName
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", h.Domain, info,
			model.Bytes.FormattedString(h.Data.TotData(model.Bytes)))
	}

	w.Flush()
}

func endpoint(addr string, port *uint16) string {
	if port == nil {
		return addr
	}
	return fmt.Sprintf("%s:%d", addr, *port)
}
