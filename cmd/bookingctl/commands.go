package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"studio-booking/internal/dto"
	"studio-booking/internal/planner"
)

func init() {
	register(
		&command{name: "login", usage: "<email> <password>", summary: "登录并保存 Token", run: runLogin},
		&command{name: "logout", summary: "登出并清除本地 Token", run: runLogout},
		&command{name: "register", usage: "--email --password --name [--phone]", summary: "注册账号", run: runRegister},
		&command{name: "me", summary: "当前用户", run: runMe},
		&command{name: "rooms", summary: "可预约房间", run: runRooms},
		&command{name: "week", summary: "本周营业日", run: runWeek},
		&command{name: "slots", usage: "--room ID [--date YYYY-MM-DD] [--duration 60]", summary: "查看可预约时段", run: runSlots},
		&command{name: "book", usage: "--room ID --start T --end T [--notes]", summary: "创建预约", run: runBook},
		&command{name: "bookings", summary: "我的预约", run: runMyBookings},
		&command{name: "cancel", usage: "<booking-id>", summary: "取消预约", run: runCancel},
		&command{name: "calendar", usage: "[--out FILE]", summary: "导出我的预约日历 (.ics)", run: runCalendar},
		&command{name: "classes", summary: "我的固定课表", run: runMyClasses},
		&command{name: "room-classes", usage: "--room ID [--from DATE] [--to DATE]", summary: "房间课程", run: runRoomClasses},
	)
}

func newFlags(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("需要一个 ID 参数")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("无效的 ID %q", args[0])
	}
	return id, nil
}

// ── 认证 ──

func runLogin(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("用法: login <email> <password>")
	}
	tok, err := a.cl.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "登录成功，Token 有效期 %d 秒\n", tok.ExpiresIn)
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.cl.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "已登出")
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	email := fs.String("email", "", "邮箱")
	password := fs.String("password", "", "密码")
	name := fs.String("name", "", "姓名")
	phone := fs.String("phone", "", "电话")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := &dto.RegisterRequest{Email: *email, Password: *password, FullName: *name}
	if fs.Changed("phone") {
		req.Phone = phone
	}
	u, err := a.cl.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "注册成功: #%d %s\n", u.ID, u.Email)
	return nil
}

func runMe(ctx context.Context, a *app, _ []string) error {
	u, err := a.cl.Me(ctx)
	if err != nil {
		return err
	}
	role := "用户"
	if u.IsAdmin {
		role = "管理员"
	}
	fmt.Fprintf(a.out, "#%d %s <%s> %s\n", u.ID, u.FullName, u.Email, role)
	return nil
}

// ── 房间与时段 ──

func runRooms(ctx context.Context, a *app, _ []string) error {
	rooms, err := a.cl.Rooms(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\t名称\t容量\t设备")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.Name, r.Capacity, deref(r.Equipment))
	}
	return tw.Flush()
}

func runWeek(_ context.Context, a *app, _ []string) error {
	for _, d := range planner.WeekDays(a.now().In(a.loc)) {
		mark := ""
		if d.IsPast {
			mark = "（已过）"
		}
		fmt.Fprintf(a.out, "%s %s%s\n", d.Date.Format("2006-01-02"), planner.WeekdayLabel((int(d.Date.Weekday())+6)%7), mark)
	}
	return nil
}

func runSlots(ctx context.Context, a *app, args []string) error {
	fs := newFlags("slots")
	roomID := fs.Int64("room", 0, "房间 ID")
	date := fs.String("date", "", "日期 YYYY-MM-DD（默认今天）")
	duration := fs.Int("duration", 60, "时长（分钟）")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roomID <= 0 {
		return fmt.Errorf("需要 --room")
	}
	if *date == "" {
		*date = a.now().In(a.loc).Format("2006-01-02")
	}

	slots, err := a.cl.AvailableSlots(ctx, *roomID, *date, *duration)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintln(a.out, "当天不营业")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "开始\t结束\t状态")
	for _, v := range planner.SlotViews(slots, a.now()) {
		state := "可预约"
		switch {
		case v.IsPast:
			state = "已过"
		case !v.Slot.IsAvailable:
			state = "已占用"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.clock(v.Slot.StartTime), a.clock(v.Slot.EndTime), state)
	}
	return tw.Flush()
}

// ── 预约 ──

func runBook(ctx context.Context, a *app, args []string) error {
	fs := newFlags("book")
	roomID := fs.Int64("room", 0, "房间 ID")
	start := fs.String("start", "", "开始时间（RFC3339 或 2006-01-02T15:04:05）")
	end := fs.String("end", "", "结束时间")
	notes := fs.String("notes", "", "备注")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roomID <= 0 || *start == "" || *end == "" {
		return fmt.Errorf("需要 --room、--start 与 --end")
	}

	req := &dto.CreateBookingRequest{RoomID: *roomID, StartTime: *start, EndTime: *end}
	if *notes != "" {
		req.Notes = notes
	}
	b, err := a.cl.CreateBooking(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "预约成功: #%d %s - %s\n", b.ID, a.clock(b.StartTime), a.clock(b.EndTime))
	return nil
}

func runMyBookings(ctx context.Context, a *app, _ []string) error {
	bookings, err := a.cl.MyBookings(ctx, 0, 0)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Fprintln(a.out, "暂无预约")
		return nil
	}
	return a.printBookings(bookings, false)
}

func (a *app) printBookings(bookings []dto.BookingResponse, withUser bool) error {
	tw := a.table()
	if withUser {
		fmt.Fprintln(tw, "ID\t房间\t用户\t开始\t结束\t状态")
	} else {
		fmt.Fprintln(tw, "ID\t房间\t开始\t结束\t状态\t备注")
	}
	for _, b := range bookings {
		room := fmt.Sprint(b.RoomID)
		if b.Room != nil {
			room = b.Room.Name
		}
		if withUser {
			user := fmt.Sprint(b.UserID)
			if b.User != nil {
				user = b.User.Email
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", b.ID, room, user, a.clock(b.StartTime), a.clock(b.EndTime), b.Status)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", b.ID, room, a.clock(b.StartTime), a.clock(b.EndTime), b.Status, deref(b.Notes))
	}
	return tw.Flush()
}

func runCancel(ctx context.Context, a *app, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.cl.CancelBooking(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "预约 #%d 已取消\n", id)
	return nil
}

func runCalendar(ctx context.Context, a *app, args []string) error {
	fs := newFlags("calendar")
	outPath := fs.String("out", "", "输出文件（默认标准输出）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	feed, err := a.cl.MyCalendar(ctx)
	if err != nil {
		return err
	}
	if *outPath == "" {
		_, err = a.out.Write(feed)
		return err
	}
	if err := os.WriteFile(*outPath, feed, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	fmt.Fprintf(a.out, "已写入 %s\n", *outPath)
	return nil
}

// ── 课程 ──

func runMyClasses(ctx context.Context, a *app, _ []string) error {
	classes, err := a.cl.MyClasses(ctx)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		fmt.Fprintln(a.out, "暂无固定课表")
		return nil
	}
	return a.printStudents(classes)
}

func runRoomClasses(ctx context.Context, a *app, args []string) error {
	fs := newFlags("room-classes")
	roomID := fs.Int64("room", 0, "房间 ID")
	from := fs.String("from", "", "开始日期 YYYY-MM-DD")
	to := fs.String("to", "", "结束日期 YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roomID <= 0 {
		return fmt.Errorf("需要 --room")
	}

	classes, err := a.cl.ClassesByRoom(ctx, *roomID, *from, *to)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\t课程\t老师\t开始\t结束\t状态")
	for _, c := range classes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.ClassName, c.TeacherName, a.clock(c.StartTime), a.clock(c.EndTime), c.Status)
	}
	return tw.Flush()
}

func (a *app) printStudents(students []dto.StudentResponse) error {
	tw := a.table()
	fmt.Fprintln(tw, "ID\t学员\t老师\t房间\t星期\t时间")
	for _, s := range students {
		room := fmt.Sprint(s.RoomID)
		if s.Room != nil {
			room = s.Room.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s-%s\n", s.ID, s.Name, s.TeacherName, room, planner.WeekdayLabel(s.Weekday), s.StartTime, s.EndTime)
	}
	return tw.Flush()
}
