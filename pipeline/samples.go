package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/marcward/glidetrack"
)

var sampleHeader = []string{
	"timestamp_utc", "latitude", "longitude",
	"speed_raw", "speed", "elevation_raw_m", "elevation_m",
	"bucket", "lap_count",
}

func writeSamplesCSV(path string, samples []glidetrack.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(s.Latitude),
			formatFloat(s.Longitude),
			formatFloat(s.SpeedRaw),
			formatFloat(s.Speed),
			formatFloat(s.ElevationRaw),
			formatFloat(s.Elevation),
			s.Bucket.String(),
			strconv.Itoa(s.LapCount),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type sampleParquetRow struct {
	TimestampUTC string  `parquet:"name=timestamp_utc, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Latitude     float64 `parquet:"name=latitude, type=DOUBLE"`
	Longitude    float64 `parquet:"name=longitude, type=DOUBLE"`
	SpeedRaw     float64 `parquet:"name=speed_raw, type=DOUBLE"`
	Speed        float64 `parquet:"name=speed, type=DOUBLE"`
	ElevationRaw float64 `parquet:"name=elevation_raw_m, type=DOUBLE"`
	Elevation    float64 `parquet:"name=elevation_m, type=DOUBLE"`
	Bucket       string  `parquet:"name=bucket, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	LapCount     int64   `parquet:"name=lap_count, type=INT64"`
}

func writeSamplesParquet(path string, samples []glidetrack.Sample) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(sampleParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range samples {
		row := sampleParquetRow{
			TimestampUTC: s.Timestamp.UTC().Format(time.RFC3339),
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			SpeedRaw:     s.SpeedRaw,
			Speed:        s.Speed,
			ElevationRaw: s.ElevationRaw,
			Elevation:    s.Elevation,
			Bucket:       s.Bucket.String(),
			LapCount:     int64(s.LapCount),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
