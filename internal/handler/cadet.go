package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/service"
	"CadetTrack/pkg/response"
)

// ListCadets 学员列表
// GET /v1/cadets
func ListCadets(ctx context.Context, c *app.RequestContext) {
	var query dto.PageQuery
	if !bind(ctx, c, &query) {
		return
	}

	result, err := service.Cadet().List(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CountCadets 总数与男女人数
// GET /v1/cadets/count
func CountCadets(ctx context.Context, c *app.RequestContext) {
	result, err := service.Cadet().Count(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CreateCadet 新建学员
// POST /v1/cadets
func CreateCadet(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateCadetRequest
	if !bind(ctx, c, &req) {
		return
	}

	cadet, err := service.Cadet().Create(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, "Cadet created successfully.", cadet)
}

// GetCadet 学员详情
// GET /v1/cadets/:cadet_id
func GetCadet(ctx context.Context, c *app.RequestContext) {
	cadet, err := service.Cadet().Get(ctx, c.Param("cadet_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, cadet)
}

// UpdateCadet 部分更新学员
// PUT /v1/cadets/:cadet_id
func UpdateCadet(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateCadetRequest
	if !bind(ctx, c, &req) {
		return
	}

	cadet, err := service.Cadet().Update(ctx, c.Param("cadet_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMessage(ctx, c, "Cadet updated successfully.", cadet)
}

// DeleteCadet 删除学员及其打卡记录
// DELETE /v1/cadets/:cadet_id
func DeleteCadet(ctx context.Context, c *app.RequestContext) {
	if err := service.Cadet().Delete(ctx, c.Param("cadet_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMessage(ctx, c, "Cadet deleted successfully.", nil)
}
