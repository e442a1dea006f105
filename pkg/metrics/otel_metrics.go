package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 考勤业务指标集合
type OTelMetrics struct {
	AttendanceRecordedTotal   metric.Int64Counter
	AttendanceOverriddenTotal metric.Int64Counter
	AttendanceDuplicateTotal  metric.Int64Counter

	HistoryArchivedTotal   metric.Int64Counter
	HistoryArchiveDuration metric.Float64Histogram

	ExportTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("cadettrack")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	m := &OTelMetrics{}

	m.AttendanceRecordedTotal, err = meter.Int64Counter(
		"attendance.records.total",
		metric.WithDescription("Total number of attendance records stored"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return err
	}

	m.AttendanceOverriddenTotal, err = meter.Int64Counter(
		"attendance.status_overridden.total",
		metric.WithDescription("Total number of check-ins whose claimed status was replaced by the cutoff rule"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return err
	}

	m.AttendanceDuplicateTotal, err = meter.Int64Counter(
		"attendance.duplicates.total",
		metric.WithDescription("Total number of rejected duplicate check-ins"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return err
	}

	m.HistoryArchivedTotal, err = meter.Int64Counter(
		"history.archived.total",
		metric.WithDescription("Total number of daily history snapshots written"),
		metric.WithUnit("{snapshot}"),
	)
	if err != nil {
		return err
	}

	m.HistoryArchiveDuration, err = meter.Float64Histogram(
		"history.archive.duration",
		metric.WithDescription("Time spent computing and saving a daily snapshot"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	m.ExportTotal, err = meter.Int64Counter(
		"export.files.total",
		metric.WithDescription("Total number of exported files"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return err
	}

	metrics = m
	return nil
}

// GetMetrics 获取全局指标实例，未初始化时为 nil
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordAttendance 记录一次考勤写入
func RecordAttendance(ctx context.Context, status string, overridden bool) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.AttendanceRecordedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if overridden {
		m.AttendanceOverriddenTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

// RecordDuplicate 记录一次重复打卡
func RecordDuplicate(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.AttendanceDuplicateTotal.Add(ctx, 1)
	}
}

// RecordArchive 记录一次历史归档
func RecordArchive(ctx context.Context, source string, seconds float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.HistoryArchivedTotal.Add(ctx, 1, attrs)
	m.HistoryArchiveDuration.Record(ctx, seconds, attrs)
}

// RecordExport 记录一次文件导出
func RecordExport(ctx context.Context, kind, format string) {
	if m := GetMetrics(); m != nil {
		m.ExportTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("format", format),
		))
	}
}
