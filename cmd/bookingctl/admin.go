package main

import (
	"context"
	"fmt"
	"os"

	"studio-booking/internal/dto"
	"studio-booking/internal/planner"
)

func init() {
	register(
		&command{name: "admin-users", summary: "全部用户", admin: true, run: runAdminUsers},
		&command{name: "admin-bookings", summary: "全部预约", admin: true, run: runAdminBookings},
		&command{name: "admin-export", usage: "[--out FILE]", summary: "导出预约 Excel", admin: true, run: runAdminExport},
		&command{name: "admin-rooms", summary: "全部房间（含停用）", admin: true, run: runAdminRooms},
		&command{name: "room-create", usage: "--name [--capacity] [--description] [--equipment]", summary: "创建房间", admin: true, run: runRoomCreate},
		&command{name: "room-update", usage: "<id> [--name] [--capacity] [--active]", summary: "更新房间", admin: true, run: runRoomUpdate},
		&command{name: "room-delete", usage: "<id>", summary: "停用房间", admin: true, run: runRoomDelete},
		&command{name: "students", summary: "全部学员", admin: true, run: runStudents},
		&command{name: "student-create", usage: "--name --teacher --room --weekday --start --end", summary: "创建学员", admin: true, run: runStudentCreate},
		&command{name: "student-update", usage: "<id> [--weekday] [--start] [--end] ...", summary: "更新学员", admin: true, run: runStudentUpdate},
		&command{name: "student-delete", usage: "<id>", summary: "停用学员", admin: true, run: runStudentDelete},
	)
}

// ── 用户与预约 ──

func runAdminUsers(ctx context.Context, a *app, _ []string) error {
	users, err := a.cl.Users(ctx, 0, 0)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\t邮箱\t姓名\t管理员\t启用")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%v\n", u.ID, u.Email, u.FullName, u.IsAdmin, u.IsActive)
	}
	return tw.Flush()
}

func runAdminBookings(ctx context.Context, a *app, _ []string) error {
	bookings, err := a.cl.AllBookings(ctx, 0, 0)
	if err != nil {
		return err
	}
	return a.printBookings(bookings, true)
}

func runAdminExport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("admin-export")
	outPath := fs.String("out", "bookings.xlsx", "输出文件")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := a.cl.ExportBookings(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	fmt.Fprintf(a.out, "已写入 %s\n", *outPath)
	return nil
}

// ── 房间 ──

func runAdminRooms(ctx context.Context, a *app, _ []string) error {
	rooms, err := a.cl.AdminRooms(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\t名称\t容量\t启用\t设备")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%v\t%s\n", r.ID, r.Name, r.Capacity, r.IsActive, deref(r.Equipment))
	}
	return tw.Flush()
}

func runRoomCreate(ctx context.Context, a *app, args []string) error {
	form := dto.EmptyRoomForm()
	fs := newFlags("room-create")
	fs.StringVar(&form.Name, "name", form.Name, "名称")
	fs.IntVar(&form.Capacity, "capacity", form.Capacity, "容量")
	description := fs.String("description", "", "描述")
	equipment := fs.String("equipment", "", "设备")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Changed("description") {
		form.Description = description
	}
	if fs.Changed("equipment") {
		form.Equipment = equipment
	}

	r, err := a.cl.CreateRoom(ctx, &form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "房间已创建: #%d %s\n", r.ID, r.Name)
	return nil
}

func runRoomUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("room-update")
	name := fs.String("name", "", "名称")
	capacity := fs.Int("capacity", 0, "容量")
	description := fs.String("description", "", "描述")
	equipment := fs.String("equipment", "", "设备")
	active := fs.Bool("active", true, "是否启用")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	var req dto.UpdateRoomRequest
	if fs.Changed("name") {
		req.Name = name
	}
	if fs.Changed("capacity") {
		req.Capacity = capacity
	}
	if fs.Changed("description") {
		req.Description = description
	}
	if fs.Changed("equipment") {
		req.Equipment = equipment
	}
	if fs.Changed("active") {
		req.IsActive = active
	}

	r, err := a.cl.UpdateRoom(ctx, id, &req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "房间已更新: #%d %s\n", r.ID, r.Name)
	return nil
}

func runRoomDelete(ctx context.Context, a *app, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.cl.DeleteRoom(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "房间 #%d 已停用\n", id)
	return nil
}

// ── 学员 ──

func runStudents(ctx context.Context, a *app, _ []string) error {
	students, err := a.cl.Students(ctx)
	if err != nil {
		return err
	}
	return a.printStudents(students)
}

func checkWeekday(weekday int) error {
	for _, o := range planner.StudentWeekdayOptions() {
		if o.Value == weekday {
			return nil
		}
	}
	return fmt.Errorf("星期 %d 不可选（0=周一，周五与周日不营业）", weekday)
}

func runStudentCreate(ctx context.Context, a *app, args []string) error {
	form := dto.EmptyStudentForm()
	fs := newFlags("student-create")
	fs.StringVar(&form.Name, "name", "", "学员姓名")
	fs.StringVar(&form.TeacherName, "teacher", "", "老师")
	fs.Int64Var(&form.RoomID, "room", 0, "房间 ID")
	fs.IntVar(form.Weekday, "weekday", *form.Weekday, "星期（0=周一）")
	fs.StringVar(&form.StartTime, "start", "", "开始 HH:MM")
	fs.StringVar(&form.EndTime, "end", "", "结束 HH:MM")
	email := fs.String("email", "", "邮箱（与账号邮箱一致时可在课表中看到）")
	phone := fs.String("phone", "", "电话")
	notes := fs.String("notes", "", "备注")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkWeekday(*form.Weekday); err != nil {
		return err
	}
	if fs.Changed("email") {
		form.Email = email
	}
	if fs.Changed("phone") {
		form.Phone = phone
	}
	if fs.Changed("notes") {
		form.Notes = notes
	}

	s, err := a.cl.CreateStudent(ctx, &form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "学员已创建: #%d %s %s %s-%s\n", s.ID, s.Name, planner.WeekdayLabel(s.Weekday), s.StartTime, s.EndTime)
	return nil
}

func runStudentUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("student-update")
	name := fs.String("name", "", "学员姓名")
	teacher := fs.String("teacher", "", "老师")
	roomID := fs.Int64("room", 0, "房间 ID")
	weekday := fs.Int("weekday", 0, "星期（0=周一）")
	start := fs.String("start", "", "开始 HH:MM")
	end := fs.String("end", "", "结束 HH:MM")
	email := fs.String("email", "", "邮箱")
	notes := fs.String("notes", "", "备注")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	var req dto.UpdateStudentRequest
	if fs.Changed("name") {
		req.Name = name
	}
	if fs.Changed("teacher") {
		req.TeacherName = teacher
	}
	if fs.Changed("room") {
		req.RoomID = roomID
	}
	if fs.Changed("weekday") {
		if err := checkWeekday(*weekday); err != nil {
			return err
		}
		req.Weekday = weekday
	}
	if fs.Changed("start") {
		req.StartTime = start
	}
	if fs.Changed("end") {
		req.EndTime = end
	}
	if fs.Changed("email") {
		req.Email = email
	}
	if fs.Changed("notes") {
		req.Notes = notes
	}

	s, err := a.cl.UpdateStudent(ctx, id, &req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "学员已更新: #%d %s\n", s.ID, s.Name)
	return nil
}

func runStudentDelete(ctx context.Context, a *app, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.cl.DeleteStudent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "学员 #%d 已停用\n", id)
	return nil
}
