package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"shoplab/internal/client"
)

func cmdRegister(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("register")
	var in client.RegisterRequest
	fs.StringVar(&in.Username, "username", "", "username")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", os.Getenv("SHOP_PASSWORD"), "password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Address, "address", "", "address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return errors.New("-username, -email and -password are required")
	}
	u, err := e.api.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "registered %s (%s)\n", u.Username, u.ID)
	return nil
}

func cmdLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("login")
	username := fs.String("username", "", "username")
	password := fs.String("password", os.Getenv("SHOP_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("-username and -password are required")
	}
	s, err := e.api.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if err := client.SaveSession(e.sessionPath, s); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "logged in as %s (%s), token valid until %s\n",
		s.User.Username, s.User.Role, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func cmdLogout(_ context.Context, e *env, _ []string) error {
	if err := client.DeleteSession(e.sessionPath); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "logged out")
	return nil
}

func cmdProducts(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("products")
	var q client.ProductQuery
	fs.StringVar(&q.Search, "search", "", "search name and description")
	fs.StringVar(&q.Category, "category", "", "category")
	fs.StringVar(&q.MinPrice, "min", "", "minimum price")
	fs.StringVar(&q.MaxPrice, "max", "", "maximum price")
	if err := fs.Parse(args); err != nil {
		return err
	}
	products, err := e.api.Products(ctx, q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock)
	}
	return tw.Flush()
}

func cmdCart(ctx context.Context, e *env, _ []string) error {
	s, err := e.session()
	if err != nil {
		return err
	}
	cart, err := e.api.Cart(ctx, s)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		fmt.Fprintln(e.stdout, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tQTY\tPRICE\tLINE")
	for _, it := range cart.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, it.Price, it.LineTotal)
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", cart.Count, cart.Total)
	return tw.Flush()
}

func cmdAdd(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("add")
	productID := fs.String("product", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID == "" {
		return errors.New("-product is required")
	}
	s, err := e.session()
	if err != nil {
		return err
	}
	item, err := e.api.AddToCart(ctx, s, *productID, *qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "cart now has %d x %s\n", item.Quantity, item.Name)
	return nil
}

func cmdRemove(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("remove")
	itemID := fs.String("item", "", "cart item id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *itemID == "" {
		return errors.New("-item is required")
	}
	s, err := e.session()
	if err != nil {
		return err
	}
	if err := e.api.RemoveCartItem(ctx, s, *itemID); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "removed")
	return nil
}

func cmdCheckout(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("checkout")
	address := fs.String("address", "", "shipping address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := e.session()
	if err != nil {
		return err
	}
	if *address == "" {
		*address = s.User.Address
	}
	if *address == "" {
		return errors.New("-address is required")
	}
	o, err := e.api.Checkout(ctx, s, *address)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "order %s placed, total %s, status %s\n", o.ID, o.Total, o.Status)
	return nil
}

func cmdOrders(ctx context.Context, e *env, _ []string) error {
	s, err := e.session()
	if err != nil {
		return err
	}
	orders, err := e.api.Orders(ctx, s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02"), o.Status, len(o.Items), o.Total)
	}
	return tw.Flush()
}

func cmdOrder(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("order")
	id := fs.String("id", "", "order id")
	cancel := fs.Bool("cancel", false, "cancel the order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	s, err := e.session()
	if err != nil {
		return err
	}
	var o *client.Order
	if *cancel {
		o, err = e.api.CancelOrder(ctx, s, *id)
	} else {
		o, err = e.api.Order(ctx, s, *id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "order %s  status %s  total %s\nship to: %s\n", o.ID, o.Status, o.Total, o.ShippingAddress)
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, it := range o.Items {
		fmt.Fprintf(tw, "  %s\t%d x %s\t%s\n", it.Name, it.Quantity, it.UnitPrice, it.Total)
	}
	return tw.Flush()
}

func cmdProfile(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("profile")
	email := fs.String("email", "", "new email")
	phone := fs.String("phone", "", "new phone")
	address := fs.String("address", "", "new address")
	card := fs.String("card", "", "card number (only the last four digits are kept)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := e.session()
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var upd client.ProfileUpdate
	if set["email"] {
		upd.Email = email
	}
	if set["phone"] {
		upd.Phone = phone
	}
	if set["address"] {
		upd.Address = address
	}
	if set["card"] {
		upd.CreditCard = card
	}

	var u *client.User
	if len(set) > 0 {
		u, err = e.api.UpdateProfile(ctx, s, upd)
	} else {
		u, err = e.api.Me(ctx, s)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "username\t%s\n", u.Username)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "role\t%s\n", u.Role)
	fmt.Fprintf(tw, "name\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "address\t%s\n", u.Address)
	if u.CreditCard != "" {
		fmt.Fprintf(tw, "card\t%s\n", u.CreditCard)
	}
	return tw.Flush()
}

func cmdStats(ctx context.Context, e *env, _ []string) error {
	s, err := e.session()
	if err != nil {
		return err
	}
	st, err := e.api.Stats(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "users %d  products %d  orders %d  revenue %s\n", st.Users, st.Products, st.Orders, st.Revenue)
	return nil
}
